package gamma

import (
	"fmt"
	"regexp"
	"time"
)

// endTimePattern 匹配标题里的 "<月份> <日> ... - <时:分><AM|PM>"
// 例如 "Bitcoin Up or Down - January 5 9:00AM-9:05AM" 匹配出
// "January 5" 和 "9:05AM"（第一个 "-" 之后的时间即收盘时间）。
var endTimePattern = regexp.MustCompile(`(\w+ \d+).*?-\s*(\d{1,2}:\d{2}(AM|PM))`)

// expiryFixupOffset 对解析结果做固定 +5 小时修正。
// 上游标题用的是美东时间而进程按 UTC 计算；这个偏移是对 feed 的经验修正，
// 不是原则性的时区换算（DST 切换期间会差 1 小时）。
const expiryFixupOffset = 5 * time.Hour

// ParseEndTime 从自由文本标题解析市场收盘时间（UTC）
// 年份取 now 的 UTC 年。失败返回 false，调用方据此把候选排除即可。
// 已知局限：12 月的标题在 1 月 1 日附近解析会得到远未来/远过去的时间，
// 这类候选不会落入交易窗口，不单独处理。
func ParseEndTime(question string, now time.Time) (time.Time, bool) {
	m := endTimePattern.FindStringSubmatch(question)
	if m == nil {
		return time.Time{}, false
	}

	year := now.UTC().Year()
	raw := fmt.Sprintf("%s %d %s", m[1], year, m[2])
	t, err := time.Parse("January 2 2006 3:04PM", raw)
	if err != nil {
		return time.Time{}, false
	}

	return t.Add(expiryFixupOffset).UTC(), true
}
