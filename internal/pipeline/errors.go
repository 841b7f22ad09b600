package pipeline

import "errors"

// Terminal outcomes of one recognition call. Each aborts the call and is
// reported to the user as-is; row-level problems never land here, they are
// accumulated as per-row discard reasons instead.
var (
	// ErrUnsupported: the runtime lacks the text-detection capability.
	// Fatal for the call; retrying cannot help on this device.
	ErrUnsupported = errors.New("当前设备不支持文字识别，请更新后重试")
	// ErrInvalidImage: the image reference could not be acquired/decoded.
	// Retryable by choosing another image.
	ErrInvalidImage = errors.New("图片路径无效")
	// ErrEngine: the detection engine failed to start or errored.
	ErrEngine = errors.New("设备不支持或环境异常，请换台设备重试")
	// ErrEmptyRecognition: the engine returned no usable text at all.
	ErrEmptyRecognition = errors.New("图片模糊或无基金数据，请重试")
	// ErrNoiseOnly: recognition produced text, but cleaning left nothing.
	ErrNoiseOnly = errors.New("识别内容均为干扰文本，未包含有效基金数据")
	// ErrNoRows: cleaned text carried no percentage anchors.
	ErrNoRows = errors.New("未识别到有效基金数据行，请重新截图")
	// ErrNoAccepted: rows were parsed but none passed matching and
	// validation; the accompanying Result still carries the discards.
	ErrNoAccepted = errors.New("没有可添加的基金记录")
)

// Per-row discard reasons surfaced beside accepted records.
const (
	DiscardAbnormal  = "字段异常"
	DiscardUnmatched = "未匹配"
	DiscardLowScore  = "匹配度低(＜90%)"
)
