package model

import (
	"fmt"
	"sync"
	"time"
)

// Unit is one field operative's active shift. All mutation goes through
// the methods below; every event path (poll snapshot or push) ends up here.
type Unit struct {
	mx             sync.RWMutex
	uid            string
	callsign       string
	team           string
	deviceID       string
	revoked        bool
	trackingActive bool
	sosActive      bool
	position       *Position
	health         *Health
	lastHeartbeat  time.Time
	startTime      time.Time
	lastSeen       time.Time
}

func NewUnit(uid, callsign string) *Unit {
	return &Unit{
		uid:       uid,
		callsign:  callsign,
		startTime: time.Now(),
		lastSeen:  time.Now(),
		mx:        sync.RWMutex{},
	}
}

func (u *Unit) String() string {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return fmt.Sprintf("%s (%s)", u.uid, u.callsign)
}

func (u *Unit) GetUID() string {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.uid
}

func (u *Unit) GetCallsign() string {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.callsign
}

func (u *Unit) GetTeam() string {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.team
}

func (u *Unit) GetDeviceID() string {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.deviceID
}

func (u *Unit) SetPairing(deviceID, team string) {
	u.mx.Lock()
	defer u.mx.Unlock()

	u.deviceID = deviceID
	u.team = team
}

func (u *Unit) IsRevoked() bool {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.revoked
}

func (u *Unit) SetRevoked(revoked bool) {
	u.mx.Lock()
	defer u.mx.Unlock()

	u.revoked = revoked
}

func (u *Unit) IsTrackingActive() bool {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.trackingActive
}

func (u *Unit) SetTracking(active bool) {
	u.mx.Lock()
	defer u.mx.Unlock()

	u.trackingActive = active
	u.lastSeen = time.Now()
}

func (u *Unit) IsSosActive() bool {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.sosActive
}

func (u *Unit) SetSos(active bool) {
	u.mx.Lock()
	defer u.mx.Unlock()

	u.sosActive = active
	u.lastSeen = time.Now()
}

// GetPosition returns the last accepted fix, not the last received one.
func (u *Unit) GetPosition() *Position {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.position
}

func (u *Unit) SetPosition(p *Position) {
	u.mx.Lock()
	defer u.mx.Unlock()

	u.position = p
	u.lastSeen = time.Now()
}

func (u *Unit) GetHealth() *Health {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.health
}

func (u *Unit) SetHealth(h *Health) {
	u.mx.Lock()
	defer u.mx.Unlock()

	u.health = h

	if h != nil && !h.UpdatedAt.IsZero() {
		u.lastHeartbeat = h.UpdatedAt
	}

	u.lastSeen = time.Now()
}

func (u *Unit) GetLastHeartbeat() time.Time {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.lastHeartbeat
}

func (u *Unit) Heartbeat(t time.Time) {
	u.mx.Lock()
	defer u.mx.Unlock()

	if t.After(u.lastHeartbeat) {
		u.lastHeartbeat = t
	}

	u.lastSeen = time.Now()
}

func (u *Unit) GetStartTime() time.Time {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.startTime
}

func (u *Unit) GetLastSeen() time.Time {
	u.mx.RLock()
	defer u.mx.RUnlock()

	return u.lastSeen
}
