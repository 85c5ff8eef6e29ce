package mocks

import mock "github.com/stretchr/testify/mock"

// Lifecycle is an autogenerated mock type for the Lifecycle type
type Lifecycle struct {
	mock.Mock
}

// Suspend provides a mock function with given fields: pid
func (_m *Lifecycle) Suspend(pid int32) bool {
	ret := _m.Called(pid)

	var r0 bool
	if rf, ok := ret.Get(0).(func(int32) bool); ok {
		r0 = rf(pid)
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

// Terminate provides a mock function with given fields: pid
func (_m *Lifecycle) Terminate(pid int32) bool {
	ret := _m.Called(pid)

	var r0 bool
	if rf, ok := ret.Get(0).(func(int32) bool); ok {
		r0 = rf(pid)
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}
