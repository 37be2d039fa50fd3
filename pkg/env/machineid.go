package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves an ID identifying the machine, hashed so the raw
// machine id isn't published. Falls back to the host name.
func MachineID() string {
	id, err := machineid.ProtectedID("lxeos")
	if err == nil {
		return id[:12]
	}
	glog.Warningf("machine id: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "lxeos"
}
