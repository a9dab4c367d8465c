package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject_DisplayID(t *testing.T) {
	assert.Equal(t, "prj-0001", (&Project{ID: "prj-0001"}).DisplayID())
	assert.Equal(t, "5f0c2a9e", (&Project{ID: "5f0c2a9e-71d4-4f61-9a2b-0c1d2e3f4a5b"}).DisplayID())
}

func TestProject_Label(t *testing.T) {
	assert.Equal(t, "Harbour Tower", (&Project{Name: "Harbour Tower"}).Label())
	assert.Equal(t, "Harbour Tower (Satamakatu 1)", (&Project{Name: "Harbour Tower", Address: "Satamakatu 1"}).Label())
}
