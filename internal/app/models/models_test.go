package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestCanAccess(t *testing.T) {
	protection := int64(2)
	finance := int64(3)
	staffRole := RoleStaff

	staffInProtection := &User{Role: RoleStaff, DepartmentID: &protection}
	managerInFinance := &User{Role: RoleManager, DepartmentID: &finance}
	admin := &User{Role: RoleAdmin}

	tests := []struct {
		name  string
		user  *User
		rules []AccessRule
		want  bool
	}{
		{name: "no rules is open", user: staffInProtection, want: true},
		{name: "department allow matches", user: staffInProtection, rules: []AccessRule{{DepartmentID: &protection, Allow: true}}, want: true},
		{name: "department allow excludes others", user: managerInFinance, rules: []AccessRule{{DepartmentID: &protection, Allow: true}}, want: false},
		{name: "deny wins", user: staffInProtection, rules: []AccessRule{
			{DepartmentID: &protection, Allow: true},
			{Role: &staffRole, Allow: false},
		}, want: false},
		{name: "deny only leaves others open", user: managerInFinance, rules: []AccessRule{{Role: &staffRole, Allow: false}}, want: true},
		{name: "role and department must both match", user: staffInProtection, rules: []AccessRule{
			{Role: ptr(RoleManager), DepartmentID: &protection, Allow: true},
		}, want: false},
		{name: "admin bypasses", user: admin, rules: []AccessRule{{Role: &staffRole, Allow: true}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.user, tt.rules))
		})
	}
}

func TestSurveyIsOpen(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	s := &Survey{IsActive: true}
	assert.True(t, s.IsOpen(now))

	s.ClosesAt = ptr(now.Add(-time.Minute))
	assert.False(t, s.IsOpen(now))

	s.ClosesAt = ptr(now.Add(time.Hour))
	assert.True(t, s.IsOpen(now))

	s.IsActive = false
	assert.False(t, s.IsOpen(now))
}

func TestQuestionHasValidAnswer(t *testing.T) {
	q := Question{Options: []string{"a", "b"}, CorrectAnswer: 1}
	assert.True(t, q.HasValidAnswer())
	q.CorrectAnswer = 2
	assert.False(t, q.HasValidAnswer())
	q.CorrectAnswer = -1
	assert.False(t, q.HasValidAnswer())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleManager.Valid())
	assert.False(t, Role("STUDENT").Valid())
	assert.True(t, RoleManager.CanManageContent())
	assert.False(t, RoleStaff.CanManageContent())
}
