package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewCIReporter(&buf)
	r.Start(2)
	r.Update(1, "index.html")
	r.Update(2, "github-io/about.html")
	r.Finish()

	assert.Equal(t, "Injecting navigation into 2 pages\n"+
		"[1/2] index.html\n"+
		"[2/2] github-io/about.html\n"+
		"Navigation injection complete\n", buf.String())
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	_, ok := NewReporter().(*CIReporter)
	assert.True(t, ok)
}
