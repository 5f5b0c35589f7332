package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/social-hub/internal/models"
)

func TestOrganizerButton(t *testing.T) {
	tests := []struct {
		role    string
		status  models.ApprovalStatus
		want    Button
		enabled bool
	}{
		{models.RoleParticipant, models.ApprovalNotApplied, ButtonRequest, true},
		{models.RoleParticipant, models.ApprovalRejected, ButtonReapply, true},
		{models.RoleParticipant, models.ApprovalPending, ButtonPending, false},
		{models.RoleParticipant, models.ApprovalApproved, ButtonNone, false},
		{models.RoleOrganizer, models.ApprovalApproved, ButtonNone, false},
		{models.RoleAdmin, models.ApprovalNotApplied, ButtonNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+string(tt.status), func(t *testing.T) {
			got := OrganizerButton(tt.role, tt.status)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.enabled, got.Enabled())
		})
	}
}
