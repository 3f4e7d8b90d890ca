package config

import (
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/datastax/data-views/log"
)

type ConfigMock struct {
	mock.Mock
}

func NewConfigMock() *ConfigMock {
	return &ConfigMock{}
}

func (o *ConfigMock) Default() *ConfigMock {
	o.On("DefaultPageSize").Return(10)
	o.On("MaxPageSize").Return(100)
	o.On("DataUpdateInterval").Return(10 * time.Second)
	o.On("ViewExpireInterval").Return(30 * time.Minute)
	o.On("Naming").Return(NamingConventionFn(NewDefaultNaming))
	o.On("Logger").Return(log.NewZapLogger(zap.NewExample()))
	return o
}

func (o *ConfigMock) DefaultPageSize() int {
	args := o.Called()
	return args.Int(0)
}

func (o *ConfigMock) MaxPageSize() int {
	args := o.Called()
	return args.Int(0)
}

func (o *ConfigMock) DataUpdateInterval() time.Duration {
	args := o.Called()
	return args.Get(0).(time.Duration)
}

func (o *ConfigMock) ViewExpireInterval() time.Duration {
	args := o.Called()
	return args.Get(0).(time.Duration)
}

func (o *ConfigMock) Naming() NamingConventionFn {
	args := o.Called()
	return args.Get(0).(NamingConventionFn)
}

func (o *ConfigMock) Logger() log.Logger {
	args := o.Called()
	return args.Get(0).(log.Logger)
}
