package validators

import "github.com/MKhiriev/go-natours/models"

type ruleSet struct {
	value    any
	rules    map[string]string
	messages map[string]string
}

// ruleSets lists, per validated type, the rules keyed by Go field name and
// the messages keyed by "jsonField.rule".
var ruleSets = []ruleSet{
	{
		value: models.Tour{},
		rules: map[string]string{
			"Name":           "required,min=5,max=40,alphaspace",
			"Duration":       "required,gt=0",
			"MaxGroupSize":   "required,gt=0",
			"Difficulty":     "required,oneof=easy medium difficult",
			"RatingsAverage": "min=1,max=5",
			"Price":          "required,gt=0",
			"PriceDiscount":  "omitempty,ltfield=Price",
			"Summary":        "required",
			"ImageCover":     "required",
		},
		messages: map[string]string{
			"name.required":         "A tour must have a name",
			"name.max":              "A tour name must have less or equal than 40 characters",
			"name.min":              "A tour name must have more or equal than 5 characters",
			"name.alphaspace":       "Tour name must only contain characters",
			"duration.required":     "A tour must have a duration",
			"duration.gt":           "A tour duration must be positive",
			"maxGroupSize.required": "A tour must have a group size",
			"maxGroupSize.gt":       "A tour group size must be positive",
			"difficulty.required":   "A tour must have a difficulty",
			"difficulty.oneof":      "Difficulty is either easy, medium or difficult",
			"ratingsAverage.min":    "Rating must be above or equal 1.0",
			"ratingsAverage.max":    "Rating must be below or equal 5.0",
			"price.required":        "A tour must have a price",
			"price.gt":              "A tour price must be positive",
			"priceDiscount.ltfield": "Discount price (%v) should be below regular price",
			"summary.required":      "A tour must have a summary",
			"imageCover.required":   "A tour must have a cover image",
		},
	},
	{
		value: models.User{},
		rules: map[string]string{
			"Name":     "required",
			"Email":    "required,email",
			"Role":     "required,oneof=user guide lead-guide admin",
			"Password": "required,min=8",
		},
		messages: map[string]string{
			"name.required":  "Please tell us your name!",
			"email.required": "Please tell us your email!",
			"email.email":    "Invalid email",
			"role.required":  "A user must have a role",
			"role.oneof":     "Role is either user, guide, lead-guide or admin",
		},
	},
	{
		value: models.Review{},
		rules: map[string]string{
			"Review": "required",
			"Rating": "required,min=1,max=5",
			"Tour":   "required",
			"User":   "required",
		},
		messages: map[string]string{
			"review.required": "Review cannot be empty",
			"rating.required": "A review must have a rating",
			"rating.min":      "Rating must be between 1 and 5",
			"rating.max":      "Rating must be between 1 and 5",
			"tour.required":   "Review must belong to a tour",
			"user.required":   "Review must belong to a user",
		},
	},
	{
		value: models.SignupRequest{},
		rules: map[string]string{
			"Name":            "required",
			"Email":           "required,email",
			"Password":        "required,min=8,max=72",
			"PasswordConfirm": "required,eqfield=Password",
		},
		messages: passwordMessages(map[string]string{
			"name.required":  "Please tell us your name!",
			"email.required": "Please tell us your email!",
			"email.email":    "Invalid email",
		}),
	},
	{
		value: models.PasswordReset{},
		rules: map[string]string{
			"Password":        "required,min=8,max=72",
			"PasswordConfirm": "required,eqfield=Password",
		},
		messages: passwordMessages(nil),
	},
	{
		value: models.PasswordUpdate{},
		rules: map[string]string{
			"PasswordCurrent": "required",
			"Password":        "required,min=8,max=72",
			"PasswordConfirm": "required,eqfield=Password",
		},
		messages: passwordMessages(map[string]string{
			"passwordCurrent.required": "Please provide your current password",
		}),
	},
}

func passwordMessages(extra map[string]string) map[string]string {
	m := map[string]string{
		"password.required":        "Please provide a password",
		"password.min":             "A password must have at least 8 characters",
		"password.max":             "A password must have at most 72 characters",
		"passwordConfirm.required": "Please confirm your password",
		"passwordConfirm.eqfield":  "Passwords are not the same!",
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}
