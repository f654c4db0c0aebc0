package domain

import "fmt"

// LikertAnswer is one of the five fixed agreement levels used for every
// question response. No free text is ever accepted.
type LikertAnswer string

const (
	StronglyDisagree LikertAnswer = "Strongly Disagree"
	Disagree         LikertAnswer = "Disagree"
	Neutral          LikertAnswer = "Neutral"
	Agree            LikertAnswer = "Agree"
	StronglyAgree    LikertAnswer = "Strongly Agree"
)

// LikertOptions lists the five answers in scale order, from strongest
// disagreement to strongest agreement.
var LikertOptions = []LikertAnswer{
	StronglyDisagree,
	Disagree,
	Neutral,
	Agree,
	StronglyAgree,
}

// ParseLikert validates a raw answer string against the five literals.
func ParseLikert(s string) (LikertAnswer, error) {
	for _, opt := range LikertOptions {
		if s == string(opt) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("invalid likert answer %q", s)
}

// IsValid reports whether the answer is one of the five literals.
func (a LikertAnswer) IsValid() bool {
	_, err := ParseLikert(string(a))
	return err == nil
}

// String returns the literal wire form of the answer.
func (a LikertAnswer) String() string {
	return string(a)
}

// neutralBadgeColor is used for unknown or missing answers.
const neutralBadgeColor = "#6b7280"

// answerBadgeColors keys badge colors by the literal answer string.
var answerBadgeColors = map[LikertAnswer]string{
	StronglyDisagree: "#ef4444",
	Disagree:         "#f97316",
	Neutral:          "#6b7280",
	Agree:            "#84cc16",
	StronglyAgree:    "#10b981",
}

// BadgeColor returns the badge color for an answer string. Unknown or
// missing answers fall back to a neutral color.
func BadgeColor(answer string) string {
	if c, ok := answerBadgeColors[LikertAnswer(answer)]; ok {
		return c
	}
	return neutralBadgeColor
}
