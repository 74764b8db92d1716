package suggestion

import (
	"fmt"
	"strconv"

	"github.com/futig/partner-backend/internal/entity"
)

// Fixed completion parameters
const (
	Model       = "deepseek/deepseek-chat"
	Temperature = float32(0.8)
	MaxTokens   = 600
)

// SystemPrompt asks for exactly three replies of at most 120 characters each,
// with the contention analysis and the ten-question checklist kept implicit.
const SystemPrompt = `你是两性沟通与冲突化解专家与金句写手。请在心里归纳2个可能的矛盾点（不显式展示推理），并在心里使用以下“十个对话分析清问题”作为检查清单（不要显式列出）：
1) 事实与解读的区别？ 2) 我的核心期待是什么？ 3) 哪个边界被触碰？ 4) 对方可能的动机/难处？ 5) 我可调整的部分？ 6) 如何表达感受而不指责？ 7) 期望对方的具体行动？ 8) 时间与优先级如何协调？ 9) 不满足时的备选方案？ 10) 如何收尾与复盘避免复发？
基于用户背景生成 EXACTLY 3 条适用于与恋人/暧昧对象的高能回应：
- 每条≤120字；就事论事，明确边界与期待，给出可执行推进。
- 语气依据“亲密度(1-10)”与“语气”决定力度；可尖锐但不辱骂。
- 禁止人身攻击、隐私泄露、违法内容。
- 输出格式：Markdown，编号1-3。
- 第3条如有必要，附一个“台阶”版本（更温和），用括号或换行标示。`

const userPromptTemplate = "背景：%s\n亲密度：%s\n语气：%s\n请生成三条中文回应。"

// BuildUserPrompt embeds the validated fields into the user instruction.
func BuildUserPrompt(input *entity.SuggestionInput) string {
	return fmt.Sprintf(userPromptTemplate, input.Background, FormatIntimacy(input.Intimacy), input.Tone)
}

// FormatIntimacy prints whole values without a decimal point.
func FormatIntimacy(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildCompletionRequest assembles the full request sent to the provider.
func BuildCompletionRequest(input *entity.SuggestionInput) *entity.CompletionRequest {
	return &entity.CompletionRequest{
		Model:       Model,
		System:      SystemPrompt,
		User:        BuildUserPrompt(input),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}
}
