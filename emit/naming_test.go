package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/typetransform/ast"
)

func TestWords(t *testing.T) {
	tests := map[string][]string{
		"HTTPServerURL":    {"HTTP", "Server", "URL"},
		"userID":           {"user", "ID"},
		"content-type":     {"content", "type"},
		"shipping_address": {"shipping", "address"},
		"LightBlue":        {"Light", "Blue"},
		"value1":           {"value1"},
		"  ":               nil,
	}
	for in, want := range tests {
		assert.Equal(t, want, Words(in), in)
	}
}

func TestCasing(t *testing.T) {
	tests := []struct {
		in, pascal, camel, screaming string
	}{
		{"shippingAddress", "ShippingAddress", "shippingAddress", "SHIPPING_ADDRESS"},
		{"HTTP_ERROR", "HTTPERROR", "httpError", "HTTP_ERROR"},
		{"LightBlue", "LightBlue", "lightBlue", "LIGHT_BLUE"},
		{"in-progress", "InProgress", "inProgress", "IN_PROGRESS"},
		{"userID", "UserID", "userId", "USER_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, PascalCase(tt.in))
			assert.Equal(t, tt.camel, CamelCase(tt.in))
			assert.Equal(t, tt.screaming, ScreamingSnake(tt.in))
		})
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		renamed bool
	}{
		{"id", "id", false},
		{"_private", "_private", false},
		{"content-type", "contentType", true},
		{"$ref", "ref", true},
		{"123", "_123", true},
		{"$", "_", true},
	}
	for _, tt := range tests {
		got, renamed := Identifier(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.renamed, renamed, tt.in)
	}
}

func TestCaseName(t *testing.T) {
	assert.Equal(t, "empty", CaseName(""))
	assert.Equal(t, "minus 2", CaseName("-2"))
	assert.Equal(t, "value 404", CaseName("404"))
	assert.Equal(t, "in-progress", CaseName("in-progress"))

	assert.Equal(t, "minus2", CamelCase(CaseName("-2")))
	assert.Equal(t, "VALUE_404", ScreamingSnake(CaseName("404")))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"red", "red2", "blue", "red3"}, Unique([]string{"red", "red", "blue", "red"}))
	assert.Empty(t, Unique(nil))
}

func TestMemberIdentifiers(t *testing.T) {
	members := []*ast.Member{
		{Name: "content-type", Quoted: true},
		{Name: "contentType"},
		{Name: "on", Method: true},
		{Name: "on", Method: true},
		{Name: "content_type!", Quoted: true},
	}
	assert.Equal(t, []string{"contentType2", "contentType", "on", "on", "contentType3"}, MemberIdentifiers(members))

	prop := []*ast.Member{{Name: "run"}, {Name: "run", Method: true}}
	assert.Equal(t, []string{"run", "run2"}, MemberIdentifiers(prop))
}

func TestNestedNamesAvoidReserved(t *testing.T) {
	declared := map[string]bool{"User": true, "PostUser": true}
	names := &NestedNames{Reserved: func(n string) bool { return declared[n] }}

	assert.Equal(t, "Meta", names.Pick("Post", "meta"))
	assert.Equal(t, "PostMeta", names.Pick("Post", "meta"))
	assert.Equal(t, "PostUser2", names.Pick("Post", "user"))
	assert.Equal(t, "PostMeta2", names.Pick("Post", "meta"))
	assert.Equal(t, "Nested", names.Pick("", "---"))
	assert.Equal(t, "Nested2", names.Pick("", "---"))
}
