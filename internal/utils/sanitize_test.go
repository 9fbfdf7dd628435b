package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "script with content", in: `<script>alert(1)</script>hello`, want: "hello"},
		{name: "script with attributes", in: `Nice<SCRIPT type="text/javascript">steal()</SCRIPT> tour`, want: "Nice tour"},
		{name: "multiline style", in: "<style>\nbody { color: red }\n</style>Great guide", want: "Great guide"},
		{name: "unterminated script", in: `Loved it<script>alert(1)`, want: "Loved it"},
		{name: "encoded script", in: "&lt;script&gt;alert(1)&lt;/script&gt;ok", want: "ok"},
		{name: "inline tags keep text", in: "<b>bold</b> text", want: "bold text"},
		{name: "encoded tag", in: "&lt;img src=x onerror=alert(1)&gt;", want: ""},
		{name: "entity", in: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "plain", in: "plain", want: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestStripHTMLValue(t *testing.T) {
	in := map[string]any{
		"name":   "<i>The Park Camper</i>",
		"price":  997.0,
		"images": []any{"<b>a.jpg</b>", "b.jpg"},
		"nested": map[string]any{"x": "<p>y</p>"},
	}

	out := StripHTMLValue(in).(map[string]any)

	assert.Equal(t, "The Park Camper", out["name"])
	assert.Equal(t, 997.0, out["price"])
	assert.Equal(t, []any{"a.jpg", "b.jpg"}, out["images"])
	assert.Equal(t, map[string]any{"x": "y"}, out["nested"])
}
