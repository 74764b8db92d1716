package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/partner-backend/internal/client/form"
)

const (
	// Welcome messages
	MsgWelcome = `👋 你好！这里是「和伴侣聊聊」。

把发生的事用一段文字发给我，再选好亲密度和语气，我会给你三条可以直接说出口的回应。`

	MsgHelp = `🤖 命令：

/start - 开始并显示表单
/form - 重新显示当前表单
/help - 显示这条帮助

怎么用：
1. 直接发送一段文字作为背景描述（超过5个字）
2. 在表单上选择语气和亲密度（1-10）
3. 点击「开始交流」获取三条回应

表单会自动保存，下次打开还在。`

	MsgNeedBackground  = "✏️ 发送一段超过5个字的背景描述后即可提交。"
	MsgSubmitDisabled  = "背景描述需超过5个字"
	MsgResultHeader    = "💬 三条回应："
	MsgUnknownCommand  = "❌ 未知命令。输入 /help 查看用法"
	MsgInvalidCallback = "❌ 无效的选项"
	MsgRateLimited     = "⚠️ 操作太频繁了，请稍等片刻。"
	ErrGeneric         = "❌ 出了点问题，请稍后重试或发送 /start"

	emptyBackground     = "（未填写）"
	maxBackgroundInCard = 300
)

// FormCard renders the current form values.
func FormCard(view form.View) string {
	background := strings.TrimSpace(view.Snapshot.Background)
	if background == "" {
		background = emptyBackground
	} else if utf8.RuneCountInString(background) > maxBackgroundInCard {
		background = string([]rune(background)[:maxBackgroundInCard]) + "…"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📝 当前表单\n\n背景：%s\n亲密度：%d\n语气：%s",
		background, view.Snapshot.Intimacy, view.Snapshot.Tone)

	if !view.CanSubmit && view.Mode != form.ModeSubmitting {
		b.WriteString("\n\n")
		b.WriteString(MsgNeedBackground)
	}

	return b.String()
}

// Result renders the outcome of the last submission.
func Result(view form.View) string {
	if view.Error != "" {
		return "❌ " + view.Error
	}
	return MsgResultHeader + "\n\n" + view.Markdown
}
