package bladerf

import "github.com/jrwynneiii/gobladerf/native"

// TriggerRole is the part a device plays in a trigger chain.
type TriggerRole int32

const (
	TriggerRoleInvalid  TriggerRole = -1
	TriggerRoleDisabled TriggerRole = 0
	TriggerRoleMaster   TriggerRole = 1
	TriggerRoleSlave    TriggerRole = 2
)

func TriggerRoleFromNative(v int32) (TriggerRole, error) {
	return enumFromNative("TriggerRole", v, TriggerRoleInvalid, TriggerRoleDisabled, TriggerRoleMaster, TriggerRoleSlave)
}

func (r TriggerRole) String() string {
	return enumString(r, map[TriggerRole]string{
		TriggerRoleInvalid: "invalid", TriggerRoleDisabled: "disabled", TriggerRoleMaster: "master", TriggerRoleSlave: "slave",
	})
}

// TriggerSignal is the wire a trigger is carried on.
type TriggerSignal int32

const (
	TriggerSignalInvalid  TriggerSignal = -1
	TriggerSignalJ71_4    TriggerSignal = 0
	TriggerSignalJ51_1    TriggerSignal = 1
	TriggerSignalMiniExp1 TriggerSignal = 2
	TriggerSignalUser0    TriggerSignal = 128
	TriggerSignalUser1    TriggerSignal = 129
	TriggerSignalUser2    TriggerSignal = 130
	TriggerSignalUser3    TriggerSignal = 131
	TriggerSignalUser4    TriggerSignal = 132
	TriggerSignalUser5    TriggerSignal = 133
	TriggerSignalUser6    TriggerSignal = 134
	TriggerSignalUser7    TriggerSignal = 135
)

func TriggerSignalFromNative(v int32) (TriggerSignal, error) {
	return enumFromNative("TriggerSignal", v, TriggerSignalInvalid, TriggerSignalJ71_4, TriggerSignalJ51_1, TriggerSignalMiniExp1,
		TriggerSignalUser0, TriggerSignalUser1, TriggerSignalUser2, TriggerSignalUser3,
		TriggerSignalUser4, TriggerSignalUser5, TriggerSignalUser6, TriggerSignalUser7)
}

// Trigger describes one trigger configuration.
type Trigger struct {
	Channel Channel
	Role    TriggerRole
	Signal  TriggerSignal
	Options uint64
}

func triggerFromNative(t native.Trigger) (Trigger, error) {
	ch, err := ChannelFromNative(t.Channel)
	if err != nil {
		return Trigger{}, err
	}
	role, err := TriggerRoleFromNative(t.Role)
	if err != nil {
		return Trigger{}, err
	}
	sig, err := TriggerSignalFromNative(t.Signal)
	if err != nil {
		return Trigger{}, err
	}
	return Trigger{Channel: ch, Role: role, Signal: sig, Options: t.Options}, nil
}

func (t Trigger) native() native.Trigger {
	return native.Trigger{Channel: int32(t.Channel), Role: int32(t.Role), Signal: int32(t.Signal), Options: t.Options}
}

// TriggerState is the hardware state of a trigger.
type TriggerState struct {
	Armed         bool
	Fired         bool
	FireRequested bool
}

// TriggerInit returns a trigger descriptor for ch on signal. The returned
// role is disabled; set Role before arming.
func (c *core) TriggerInit(ch Channel, signal TriggerSignal) (Trigger, error) {
	var raw native.Trigger
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		raw, code = l.TriggerInit(dev, ch.native(), int32(signal))
		return code
	})
	if err != nil {
		return Trigger{}, err
	}
	return triggerFromNative(raw)
}

// TriggerArm arms or disarms t.
func (c *core) TriggerArm(t Trigger, arm bool) error {
	raw := t.native()
	return c.do(func(l native.Library, dev native.Device) int { return l.TriggerArm(dev, &raw, arm, 0, 0) })
}

// TriggerFire fires a master trigger once.
func (c *core) TriggerFire(t Trigger) error {
	raw := t.native()
	return c.do(func(l native.Library, dev native.Device) int { return l.TriggerFire(dev, &raw) })
}

func (c *core) TriggerState(t Trigger) (TriggerState, error) {
	raw := t.native()
	var st native.TriggerState
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		st, code = l.TriggerState(dev, &raw)
		return code
	})
	return TriggerState{Armed: st.Armed, Fired: st.Fired, FireRequested: st.FireRequested}, err
}
