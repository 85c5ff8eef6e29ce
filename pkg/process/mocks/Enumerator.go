package mocks

import context "context"
import mock "github.com/stretchr/testify/mock"
import process "github.com/intelsdi-x/kldetect/pkg/process"

// Enumerator is an autogenerated mock type for the Enumerator type
type Enumerator struct {
	mock.Mock
}

// List provides a mock function with given fields: ctx
func (_m *Enumerator) List(ctx context.Context) ([]process.Info, error) {
	ret := _m.Called(ctx)

	var r0 []process.Info
	if rf, ok := ret.Get(0).(func(context.Context) []process.Info); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]process.Info)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
