// Package message builds the post-visit message sent to a customer.
package message

import (
	"fmt"
	"strings"

	"reviewmsg/pkg/placeholder"
)

const Greeting = "本日はご来店ありがとうございました！今日の施術カルテをまとめましたので次回の参考にどうぞ！"

// Treatment is what was done during the visit.
type Treatment struct {
	Services     []string `json:"services" yaml:"services"`
	Style        string   `json:"style" yaml:"style"`
	Technique    string   `json:"technique" yaml:"technique"`
	HairLength   string   `json:"hair_length" yaml:"hair_length"`
	HairFirmness string   `json:"hair_firmness" yaml:"hair_firmness"`
	Stylist      string   `json:"stylist" yaml:"stylist"`
}

func (t Treatment) ServiceList() string {
	return strings.Join(t.Services, ", ")
}

func (t Treatment) HairType() string {
	return fmt.Sprintf("%s, %s", t.HairLength, t.HairFirmness)
}

// Compose renders greeting, treatment summary, the review URL token and the
// proposal, separated by blank lines. The URL token is rendered by pattern so
// a later sync can find it again.
func Compose(t Treatment, shopURL, proposal string, pattern *placeholder.Pattern) string {
	if pattern == nil {
		pattern = placeholder.Default()
	}
	summary := strings.Join([]string{
		"・利用したサービス：" + t.ServiceList(),
		"・リクエストしたスタイル：" + t.Style,
		"・特殊技術：" + t.Technique,
		"・髪のタイプ：" + t.HairType(),
		"・担当スタイリスト：" + t.Stylist,
	}, "\n")

	return strings.Join([]string{
		Greeting,
		summary,
		pattern.Render(shopURL),
		proposal,
	}, "\n\n")
}

// BuildQuery is the prompt asking for a 50 to 100 character hair care proposal.
func BuildQuery(t Treatment) string {
	var b strings.Builder
	b.WriteString("以下の施術情報を元に、お客様へのおすすめヘアケア法やスタイリング剤等の提案文を50文字〜100文字程度で作成してください。\n\n")
	b.WriteString("【施術情報】\n")
	fmt.Fprintf(&b, "・利用したサービス: %s\n", t.ServiceList())
	fmt.Fprintf(&b, "・リクエストしたスタイル: %s\n", t.Style)
	fmt.Fprintf(&b, "・特殊技術: %s\n", t.Technique)
	fmt.Fprintf(&b, "・髪のタイプ: %s\n", t.HairType())
	return b.String()
}
