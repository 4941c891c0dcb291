package domain

// Direction 动量方向
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Side 决策方向（二元市场的 yes/no）
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// MomentumSignal 一个回看窗口内的动量信号
// 由 K 线数据纯计算得出，生成后不可变，生命周期为一个 tick。
type MomentumSignal struct {
	Pct       float64   // 回看窗口内的百分比价格变化
	Dir       Direction // 方向：pct > 0 为 up，否则为 down（含 0）
	LastPrice float64   // 最新收盘价
}

// SideForDirection 方向到下单方向的映射：up -> yes，down -> no
func SideForDirection(dir Direction) Side {
	if dir == DirectionUp {
		return SideYes
	}
	return SideNo
}

// Decision 一次周期的交易决策（本范围内只记录，不执行）
type Decision struct {
	Market   *Candidate
	Side     Side
	Momentum MomentumSignal
	YesPrice float64
}
