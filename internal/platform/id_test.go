package platform

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_ReturnsValidUUIDString(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id)
}

func TestNewID_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestNewName_Format(t *testing.T) {
	tests := []struct {
		prefix   string
		expected *regexp.Regexp
	}{
		{"tmpl_", regexp.MustCompile(`^tmpl_[a-z0-9]{10}$`)},
		{"dep_", regexp.MustCompile(`^dep_[a-z0-9]{10}$`)},
		{"sess_", regexp.MustCompile(`^sess_[a-z0-9]{10}$`)},
	}
	for _, tt := range tests {
		name := NewName(tt.prefix)
		assert.Regexp(t, tt.expected, name, "prefix=%s", tt.prefix)
	}
}

func TestNewName_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		name := NewName("tmpl_")
		assert.False(t, seen[name], "duplicate name generated: %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, 100)
}
