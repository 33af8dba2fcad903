package counselor

import (
	"strings"
	"testing"
)

func TestGenerateSessionTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "short message used verbatim",
			message: "Hello there",
			want:    "Hello there",
		},
		{
			name:    "exactly thirty chars used verbatim",
			message: strings.Repeat("a", 30),
			want:    strings.Repeat("a", 30),
		},
		{
			name:    "resume keyword",
			message: "Could you take a look at my resume and tell me what to fix?",
			want:    "Resume Help",
		},
		{
			name:    "interview keyword",
			message: "I have a big interview next week and I am quite nervous about it",
			want:    "Interview Prep",
		},
		{
			name:    "career change phrase",
			message: "I am thinking about a career change after ten years in accounting",
			want:    "Career Transition",
		},
		{
			name:    "salary keyword",
			message: "How should I negotiate my salary during the upcoming review cycle?",
			want:    "Salary Discussion",
		},
		{
			name:    "skill keyword",
			message: "Which skill should I focus on learning to stay relevant in tech?",
			want:    "Skill Development",
		},
		{
			name:    "network keyword",
			message: "What is the best way to start networking inside a large company?",
			want:    "Networking Strategy",
		},
		{
			name:    "resume wins over later interview keyword",
			message: "Please review my resume before my interview on Friday morning",
			want:    "Resume Help",
		},
		{
			name:    "keyword matched case-insensitively",
			message: "PLEASE HELP ME PREPARE FOR MY UPCOMING INTERVIEW AT A BANK",
			want:    "Interview Prep",
		},
		{
			name:    "no keyword falls back to truncation",
			message: "I would like some general advice about my professional future",
			want:    "I would like some general advi...",
		},
		{
			name:    "truncation counts runes not bytes",
			message: strings.Repeat("日", 31),
			want:    strings.Repeat("日", 30) + "...",
		},
		{
			name:    "empty message",
			message: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSessionTitle(tt.message)
			if got != tt.want {
				t.Errorf("GenerateSessionTitle(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}
