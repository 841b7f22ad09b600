package server

import "strings"

// Validation and business error messages returned in the em field. Kept as
// exact canonical strings so clients can map them reliably.
const (
	emBadCode      = "fundCode 需为6位数字"
	emBadName      = "fundName 格式异常"
	emBadAmount    = "positionAmount 格式有误"
	emAmountRange  = "positionAmount 超出合理范围"
	emBadProfit    = "holdingProfit 格式有误"
	emProfitRange  = "holdingProfit 超出合理范围"
	emBadNav       = "yesterdayNav 需为有效正数"
	emRemoveFailed = "取消持有失败"
	emAddFailed    = "添加失败"
	emLoadFailed   = "获取失败"
	emServerError  = "服务器异常，请稍后重试"
)

// formatUserError converts low-level error text into a user-readable hint,
// distinguishing network trouble from business failures.
func formatUserError(msg string) string {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		return "操作失败，请稍后重试"
	}
	if strings.Contains(trimmed, "timeout") || strings.Contains(trimmed, "deadline exceeded") ||
		strings.Contains(trimmed, "超时") {
		return "网络超时，请检查网络后重试"
	}
	if strings.Contains(trimmed, "connection refused") || strings.Contains(trimmed, "no such host") {
		return "网络异常，请检查连接后重试"
	}
	return trimmed
}
