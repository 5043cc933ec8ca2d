package config

import (
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/gridkit/olympic-data-apis/log"
)

type ConfigMock struct {
	mock.Mock
}

func NewConfigMock() *ConfigMock {
	return &ConfigMock{}
}

func (o *ConfigMock) Default() *ConfigMock {
	o.On("ServerDelay").Return(time.Duration(0))
	o.On("Naming").Return(NamingConventionFn(NewDefaultNaming))
	o.On("SupportedOperations").Return(AllEditOperations)
	o.On("Logger").Return(log.NewZapLogger(zap.NewExample()))
	return o
}

func (o *ConfigMock) ServerDelay() time.Duration {
	args := o.Called()
	return args.Get(0).(time.Duration)
}

func (o *ConfigMock) Naming() NamingConventionFn {
	args := o.Called()
	return args.Get(0).(NamingConventionFn)
}

func (o *ConfigMock) SupportedOperations() EditOperations {
	args := o.Called()
	return args.Get(0).(EditOperations)
}

func (o *ConfigMock) Logger() log.Logger {
	args := o.Called()
	return args.Get(0).(log.Logger)
}
