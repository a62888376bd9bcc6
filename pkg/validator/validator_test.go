package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVietnamesePhone_Valid(t *testing.T) {
	valid := []string{
		"0915010800",
		"+84915010800",
		"0355123456",
		"0798765432",
		"091 501 0800",
	}
	for _, phone := range valid {
		assert.True(t, IsVietnamesePhone(phone), "expected %q to be valid", phone)
	}
}

func TestIsVietnamesePhone_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"123",
		"0115010800",
		"84915010800",
		"+84015010800",
		"09150108001",
		"091501080",
		"abcdefghij",
	}
	for _, phone := range invalid {
		assert.False(t, IsVietnamesePhone(phone), "expected %q to be invalid", phone)
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("an.nguyen@example.com"))
	assert.True(t, IsEmail("a@b.vn"))
	assert.False(t, IsEmail("not-an-email"))
	assert.False(t, IsEmail("missing@domain"))
	assert.False(t, IsEmail("spaces in@example.com"))
}

func TestIsDisposableEmailDomain(t *testing.T) {
	assert.True(t, IsDisposableEmailDomain("bot@mailinator.com"))
	assert.True(t, IsDisposableEmailDomain("x@sub.yopmail.net"))
	assert.False(t, IsDisposableEmailDomain("an.nguyen@gmail.com"))
	assert.False(t, IsDisposableEmailDomain("not-an-email"))
}

func TestValidate_StructTags(t *testing.T) {
	type form struct {
		Name  string `validate:"required"`
		Phone string `validate:"required,vnphone"`
	}

	errs := Validate(form{Name: "An", Phone: "0915010800"})
	assert.Empty(t, errs)

	errs = Validate(form{Phone: "123"})
	assert.Len(t, errs, 2)
	assert.Equal(t, "Name", errs[0].Field)
	assert.Contains(t, errs[1].Message, "Vietnamese phone")
}
