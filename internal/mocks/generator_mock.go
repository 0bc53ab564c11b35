package mocks

import (
	"context"

	"director-server/internal/models"
	"director-server/internal/session"

	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock type for the session.Generator type
type MockGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, idea, characterName
func (_m *MockGenerator) Generate(ctx context.Context, idea string, characterName *string) (*models.DirectorResponse, error) {
	ret := _m.Called(ctx, idea, characterName)

	var r0 *models.DirectorResponse
	if rf, ok := ret.Get(0).(func(context.Context, string, *string) *models.DirectorResponse); ok {
		r0 = rf(ctx, idea, characterName)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.DirectorResponse)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, *string) error); ok {
		r1 = rf(ctx, idea, characterName)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockGenerator creates a new instance of MockGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ session.Generator = (*MockGenerator)(nil)
