package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUSPhoneValidator(t *testing.T) {
	type payload struct {
		Phone string `validate:"usphone"`
	}

	valid := []string{
		"3125550142",
		"13125550142",
		"(312) 555-0142",
		"+1 (312) 555-0142",
		"312-555-0142",
	}
	for _, phone := range valid {
		assert.NoError(t, Validate.Struct(payload{Phone: phone}), phone)
	}

	invalid := []string{
		"",
		"12345",
		"(112) 555-0142", // area code cannot start with 0 or 1
		"31255501420000",
	}
	for _, phone := range invalid {
		assert.Error(t, Validate.Struct(payload{Phone: phone}), phone)
	}
}
