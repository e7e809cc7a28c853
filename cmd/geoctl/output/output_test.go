package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	Section(&buf, "Mokotów")

	assert.Contains(t, buf.String(), "Mokotów\n")
	assert.Contains(t, buf.String(), "═══════\n")
}

func TestSuccess(t *testing.T) {
	var buf bytes.Buffer
	Success(&buf, "applied %d", 2)
	assert.Contains(t, buf.String(), "applied 2\n")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
