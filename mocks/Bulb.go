package mocks

import "github.com/stretchr/testify/mock"

type Bulb struct {
	mock.Mock
}

func (_m *Bulb) SetColour(r int, g int, b int) error {
	ret := _m.Called(r, g, b)

	var r0 error
	if rf, ok := ret.Get(0).(func(int, int, int) error); ok {
		r0 = rf(r, g, b)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
func (_m *Bulb) SetValue(dps int, value string) error {
	ret := _m.Called(dps, value)

	var r0 error
	if rf, ok := ret.Get(0).(func(int, string) error); ok {
		r0 = rf(dps, value)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
func (_m *Bulb) SetPower(on bool) error {
	ret := _m.Called(on)

	var r0 error
	if rf, ok := ret.Get(0).(func(bool) error); ok {
		r0 = rf(on)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
func (_m *Bulb) SetBrightness(value int) error {
	ret := _m.Called(value)

	var r0 error
	if rf, ok := ret.Get(0).(func(int) error); ok {
		r0 = rf(value)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
func (_m *Bulb) SetWhite(brightness int, temperature int) error {
	ret := _m.Called(brightness, temperature)

	var r0 error
	if rf, ok := ret.Get(0).(func(int, int) error); ok {
		r0 = rf(brightness, temperature)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
func (_m *Bulb) Status() (map[string]interface{}, error) {
	ret := _m.Called()

	var r0 map[string]interface{}
	if rf, ok := ret.Get(0).(func() map[string]interface{}); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]interface{})
	}

	var r1 error
	if rf, ok := ret.Get(1).(func() error); ok {
		r1 = rf()
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
