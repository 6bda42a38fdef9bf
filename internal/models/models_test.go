package models

import (
	"testing"
	"time"
)

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleTeacher, true},
		{RoleStudent, true},
		{RoleParent, true},
		{Role("superuser"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("Role(%q).Valid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRequirementTypeValid(t *testing.T) {
	tests := []struct {
		reqType RequirementType
		want    bool
	}{
		{RequirementPoints, true},
		{RequirementGamesPlayed, true},
		{RequirementStreak, true},
		{RequirementType("accuracy"), false},
		{RequirementType(""), false},
	}

	for _, tt := range tests {
		if got := tt.reqType.Valid(); got != tt.want {
			t.Errorf("RequirementType(%q).Valid() = %v, want %v", tt.reqType, got, tt.want)
		}
	}
}

func TestSessionIsExpired(t *testing.T) {
	past := Session{ExpiresAt: time.Now().Add(-time.Minute)}
	if !past.IsExpired() {
		t.Error("session past its expiry should be expired")
	}

	future := Session{ExpiresAt: time.Now().Add(time.Hour)}
	if future.IsExpired() {
		t.Error("session before its expiry should not be expired")
	}
}

func TestGameSessionIsCompleted(t *testing.T) {
	open := GameSession{}
	if open.IsCompleted() {
		t.Error("session without completed_at should be open")
	}

	now := time.Now()
	done := GameSession{CompletedAt: &now}
	if !done.IsCompleted() {
		t.Error("session with completed_at should be completed")
	}
}

func TestQuestionPublic(t *testing.T) {
	q := Question{
		ID:            7,
		SubjectID:     2,
		QuestionText:  "Berapa 6 x 7?",
		Options:       []string{"40", "42", "44", "46"},
		CorrectAnswer: "42",
		Explanation:   "6 x 7 = 42",
		PointsValue:   10,
	}

	pub := q.Public()
	if pub.ID != q.ID || pub.SubjectID != q.SubjectID || pub.QuestionText != q.QuestionText {
		t.Error("public view should keep the question identity fields")
	}
	if pub.PointsValue != q.PointsValue {
		t.Errorf("PointsValue = %d, want %d", pub.PointsValue, q.PointsValue)
	}
	if len(pub.Options) != len(q.Options) {
		t.Errorf("Options length = %d, want %d", len(pub.Options), len(q.Options))
	}
}
