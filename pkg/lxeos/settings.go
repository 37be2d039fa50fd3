package lxeos

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/vario.go/pkg/operation"
)

// VarioSettings mirrors the settings last reported by the device. PFLX2
// always carries all three values, so a single one can only be changed
// once the others are known.
type VarioSettings struct {
	// MacCready in m/s.
	MacCready float64
	// Bugs in percent of performance lost, 0 is clean.
	Bugs float64
	// Ballast is glider mass divided by polar reference mass.
	Ballast float64
	// UpToDate is set when the device reported the settings and cleared
	// on link timeout.
	UpToDate bool
}

// DefaultVarioSettings are used until the device reports its own.
func DefaultVarioSettings() VarioSettings {
	return VarioSettings{Ballast: 1}
}

// BugsToDevice converts the remaining efficiency fraction to the
// device percentage.
func BugsToDevice(fraction float64) float64 {
	return (1 - fraction) * 100
}

// BugsFromDevice converts the device percentage to the remaining
// efficiency fraction.
func BugsFromDevice(percent float64) float64 {
	return (100 - percent) / 100
}

// Settings returns a copy of the mirror.
func (d *Device) Settings() VarioSettings {
	d.settingsLock.Lock()
	defer d.settingsLock.Unlock()
	return d.settings
}

func (d *Device) replaceSettings(s VarioSettings) {
	s.UpToDate = true
	d.settingsLock.Lock()
	d.settings = s
	d.settingsLock.Unlock()
}

// PutMacCready changes MacCready (m/s) on the device.
func (d *Device) PutMacCready(env operation.Env, mc float64) error {
	d.settingsLock.Lock()
	d.settings.MacCready = mc
	d.settingsLock.Unlock()
	return d.SendNewSettings(env)
}

// PutBugs changes bugs on the device, bugs is the remaining efficiency
// fraction, 1 is clean.
func (d *Device) PutBugs(env operation.Env, bugs float64) error {
	d.settingsLock.Lock()
	d.settings.Bugs = BugsToDevice(bugs)
	d.settingsLock.Unlock()
	return d.SendNewSettings(env)
}

// SendNewSettings writes the whole mirror with PFLX2.
func (d *Device) SendNewSettings(env operation.Env) error {
	s := d.Settings()
	if !s.UpToDate {
		return ErrSettingsUnknown
	}
	body := SettingsSentence(s)
	glog.V(2).Infof("lxeos: sending %s", body)
	return d.writeSentence(env, body)
}

// SettingsSentence formats the PFLX2 body, without framing.
func SettingsSentence(s VarioSettings) string {
	return fmt.Sprintf("PFLX2,%.1f,%.2f,%.0f,,,,,", s.MacCready, s.Ballast, s.Bugs)
}
