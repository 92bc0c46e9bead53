package args

import (
	"github.com/vk/forgegen/internal/scope"
	"github.com/vk/forgegen/internal/sysinfo"
	"github.com/vk/forgegen/internal/value"
)

// Names of the system variables seeded into every root scope.
const (
	VarHostOS     = "host_os"
	VarCurrentOS  = "current_os"
	VarTargetOS   = "target_os"
	VarHostCPU    = "host_cpu"
	VarCurrentCPU = "current_cpu"
	VarTargetCPU  = "target_cpu"
)

// setSystemVarsLocked seeds the detected host platform into dest and
// records the system variables as implicitly declared arguments, so a
// toolchain_args block can override them and they show up in the
// argument listing. current/target default to empty; project or
// toolchain configuration is expected to fill them in.
func (a *Args) setSystemVarsLocked(dest *scope.Scope) error {
	hostOS, err := sysinfo.HostOS()
	if err != nil {
		return err
	}
	hostCPU, err := sysinfo.HostCPU()
	if err != nil {
		return err
	}

	emptyString := value.String("", nil)
	osVal := value.String(hostOS, nil)
	cpuVal := value.String(hostCPU, nil)

	dest.SetValue(VarHostOS, osVal, nil)
	dest.SetValue(VarCurrentOS, emptyString, nil)
	dest.SetValue(VarTargetOS, emptyString, nil)
	dest.SetValue(VarHostCPU, cpuVal, nil)
	dest.SetValue(VarCurrentCPU, emptyString, nil)
	dest.SetValue(VarTargetCPU, emptyString, nil)

	declared := a.declaredForToolchainLocked(dest)
	declared[VarHostOS] = osVal
	declared[VarCurrentOS] = emptyString
	declared[VarTargetOS] = emptyString
	declared[VarHostCPU] = cpuVal
	declared[VarCurrentCPU] = emptyString
	declared[VarTargetCPU] = emptyString

	// Mark them used so a build config may overwrite them without ever
	// reading the seeded value.
	dest.MarkUsed(VarHostOS)
	dest.MarkUsed(VarCurrentOS)
	dest.MarkUsed(VarTargetOS)
	dest.MarkUsed(VarHostCPU)
	dest.MarkUsed(VarCurrentCPU)
	dest.MarkUsed(VarTargetCPU)

	return nil
}
