package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/models"
)

func getAuth(t *testing.T, path, token string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestGetMyReferrals(t *testing.T) {
	setupTestDB(t)
	app := setupTestApp()
	user := createTestUser(t, models.PlanTrial, func(u *models.User) {
		u.ReferralCount = 2
		u.ReferralCreditsEarned = 10
	})

	resp, err := app.Test(getAuth(t, "/api/v1/referrals/me", tokenFor(t, user)))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["referral_count"].(float64) != 2 {
		t.Errorf("referral_count = %v, want 2", body["referral_count"])
	}
	if body["referral_credits_earned"].(float64) != 10 {
		t.Errorf("referral_credits_earned = %v, want 10", body["referral_credits_earned"])
	}
}

func TestGetMyReferralsSurfacesCountFailure(t *testing.T) {
	setupTestDB(t)
	app := setupTestApp()
	user := createTestUser(t, models.PlanTrial, nil)

	// Break the referrals table so the pending count fails.
	if err := database.DB.Migrator().DropTable(&models.Referral{}); err != nil {
		t.Fatalf("drop referrals table: %v", err)
	}

	resp, err := app.Test(getAuth(t, "/api/v1/referrals/me", tokenFor(t, user)))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when the count fails", resp.StatusCode)
	}
}
