package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ai-infra-matrix/matrix-tpl/internal/env"
)

const nginxSnippet = "server_name {{EXTERNAL_HOST}};\nproxy_pass $upstream;"

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars env.Map
		want string
	}{
		{
			name: "nginx variables are untouched",
			text: nginxSnippet,
			vars: env.Map{"EXTERNAL_HOST": "192.168.1.100"},
			want: "server_name 192.168.1.100;\nproxy_pass $upstream;",
		},
		{
			name: "empty environment preserves tokens",
			text: nginxSnippet,
			vars: env.Map{},
			want: nginxSnippet,
		},
		{
			name: "empty value leaves an empty slot",
			text: "prefix={{PREFIX}};",
			vars: env.Map{"PREFIX": ""},
			want: "prefix=;",
		},
		{
			name: "lowercase names are not tokens",
			text: "{{external_host}} {{Mixed}}",
			vars: env.Map{"EXTERNAL_HOST": "x"},
			want: "{{external_host}} {{Mixed}}",
		},
		{
			name: "leading digit is not a token",
			text: "{{1HOST}}",
			vars: env.Map{"1HOST": "x"},
			want: "{{1HOST}}",
		},
		{
			name: "shell and jinja syntax pass through",
			text: "${HOME} $HOME {{ HOME }} {HOME}",
			vars: env.Map{"HOME": "/root"},
			want: "${HOME} $HOME {{ HOME }} {HOME}",
		},
		{
			name: "values are not rescanned",
			text: "{{A}}",
			vars: env.Map{"A": "{{B}}", "B": "nope"},
			want: "{{B}}",
		},
		{
			name: "repeated and adjacent tokens",
			text: "{{HOST}}:{{PORT}}/{{HOST}}{{PORT}}",
			vars: env.Map{"HOST": "h", "PORT": "80"},
			want: "h:80/h80",
		},
		{
			name: "extra brace stays outside the token",
			text: "{{{HOST}}}",
			vars: env.Map{"HOST": "h"},
			want: "{h}",
		},
		{
			name: "unicode text survives",
			text: "# 服务地址 {{HOST}} ✓",
			vars: env.Map{"HOST": "节点-1"},
			want: "# 服务地址 节点-1 ✓",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substitute(tt.text, tt.vars))
		})
	}
}

func TestSubstituteIsIdempotent(t *testing.T) {
	texts := []string{
		nginxSnippet,
		"{{A}}{{B}}{{C}} $D ${E}",
		"no tokens at all",
		"",
	}
	vars := env.Map{"EXTERNAL_HOST": "10.0.0.1", "A": "a", "C": ""}

	for _, text := range texts {
		once := Substitute(text, vars)
		assert.Equal(t, once, Substitute(once, vars), "text %q", text)
	}
}

func TestTokens(t *testing.T) {
	text := "{{B}} {{A}} {{B}} {{lower}} {{C_1}}"
	assert.Equal(t, []string{"B", "A", "C_1"}, Tokens(text))
	assert.Nil(t, Tokens("plain"))
}

func TestResolvedAndUnresolved(t *testing.T) {
	text := "{{HOST}}:{{PORT}} {{PATH_PREFIX}}"
	vars := env.Map{"HOST": "h", "PATH_PREFIX": ""}

	assert.Equal(t, []string{"HOST", "PATH_PREFIX"}, Resolved(text, vars))
	assert.Equal(t, []string{"PORT"}, Unresolved(text, vars))
}
