package fetch

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
		{
			name: "tags stripped",
			in:   "<p>Wildcats @ Bulldogs</p><div>Pick Bulldogs -3.5</div>",
			want: "Wildcats @ Bulldogs Pick Bulldogs -3.5",
		},
		{
			name: "script removed entirely",
			in:   "<p>before</p><script>var x = 'Wildcats';</script><p>after</p>",
			want: "before after",
		},
		{
			name: "style removed entirely",
			in:   "<style>.pick { color: red; }</style><span>the pick</span>",
			want: "the pick",
		},
		{
			name: "nav and footer removed",
			in:   "<nav><a href='/'>Home</a></nav><p>content</p><footer>Terms</footer>",
			want: "content",
		},
		{
			name: "entities decoded",
			in:   "Texas A&amp;M &#39;Aggies&#39; &nbsp; win",
			want: "Texas A&M 'Aggies' win",
		},
		{
			name: "whitespace collapsed",
			in:   "<p>  Wildcats \n\n  @   Bulldogs </p>",
			want: "Wildcats @ Bulldogs",
		},
		{
			name: "multiline script",
			in:   "<script type=\"text/javascript\">\nwindow.data = {};\n</script>text",
			want: "text",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}
