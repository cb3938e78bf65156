package core

// CapabilityState 表示一种打分能力在进程内的可用状态。
type CapabilityState int

const (
	CapabilityAvailable CapabilityState = iota
	CapabilityDisabled
)

// Capability 是初始化降级的显式表达：每个打分器（图传播 / 内容相似）
// 在启动时计算一次能力状态，请求路径只做检查、不再各自吞异常。
// Disabled 不是错误：对应打分器恒返回空候选集，整体请求仍然成功。
type Capability struct {
	State  CapabilityState
	Reason string // Disabled 时的原因，用于日志与降级响应头
}

// Available 返回可用能力。
func Available() Capability {
	return Capability{State: CapabilityAvailable}
}

// Disabled 返回带原因的禁用能力。
func Disabled(reason string) Capability {
	return Capability{State: CapabilityDisabled, Reason: reason}
}

// OK 报告能力是否可用。
func (c Capability) OK() bool { return c.State == CapabilityAvailable }
