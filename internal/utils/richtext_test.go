package utils

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
		{
			name:    "plain text unchanged",
			content: "just some words",
			want:    "just some words",
		},
		{
			name:    "inline markup stripped",
			content: "<em>styled</em> and <strong>bold</strong>",
			want:    "styled and bold",
		},
		{
			name:    "paragraphs separated by newline",
			content: "<p>first paragraph</p><p>second paragraph</p>",
			want:    "first paragraph\nsecond paragraph",
		},
		{
			name:    "line breaks preserved",
			content: "line one<br>line two",
			want:    "line one\nline two",
		},
		{
			name:    "entities decoded",
			content: "<p>Tom &amp; Jerry &mdash; again</p>",
			want:    "Tom & Jerry — again",
		},
		{
			name:    "result is trimmed",
			content: "<p>  padded  </p>",
			want:    "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.content); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestToMarkdown(t *testing.T) {
	got, err := ToMarkdown("<h1>Chapter One</h1><p>It was a <strong>dark</strong> night.</p>")
	if err != nil {
		t.Fatalf("ToMarkdown failed: %v", err)
	}

	if !strings.Contains(got, "# Chapter One") {
		t.Errorf("expected markdown heading, got %q", got)
	}
	if !strings.Contains(got, "**dark**") {
		t.Errorf("expected bold markdown, got %q", got)
	}
}
