package repository

import (
	"github.com/kdudkov/goutils/callback"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type UnitsRepository interface {
	Start() error
	Stop()
	ChangeCallback() *callback.Callback[*model.Unit]
	DeleteCallback() *callback.Callback[string]
	Store(u *model.Unit)
	Get(uid string) *model.Unit
	Remove(uid string)
	ForEach(f func(u *model.Unit) bool)
	GetCallsign(uid string) string
}

type DeviceRepository interface {
	Start() error
	Stop()
	Get(deviceID string) *model.Device
	ForEach(f func(d *model.Device) bool)
	IsRevoked(deviceID string) bool
}
