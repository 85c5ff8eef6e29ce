package mocks

import mock "github.com/stretchr/testify/mock"

// Emitter is an autogenerated mock type for the Emitter type
type Emitter struct {
	mock.Mock
}

// EmitCharacter provides a mock function with given fields: ch
func (_m *Emitter) EmitCharacter(ch rune) error {
	ret := _m.Called(ch)

	var r0 error
	if rf, ok := ret.Get(0).(func(rune) error); ok {
		r0 = rf(ch)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ForceFocusChange provides a mock function with given fields:
func (_m *Emitter) ForceFocusChange() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
