package profile

import "github.com/magabrotheeeer/social-hub/internal/models"

// Button — какую кнопку заявки на роль организатора показать.
type Button int

// Варианты кнопки.
const (
	ButtonNone Button = iota
	ButtonRequest
	ButtonReapply
	ButtonPending
)

func (b Button) String() string {
	switch b {
	case ButtonRequest:
		return "Request Organizer Role"
	case ButtonReapply:
		return "Rejected, Re-Apply"
	case ButtonPending:
		return "Organizer Request Pending"
	}
	return ""
}

// Enabled сообщает, можно ли нажать кнопку.
func (b Button) Enabled() bool {
	return b == ButtonRequest || b == ButtonReapply
}

// OrganizerButton выбирает кнопку по роли и статусу заявки. Кнопка есть
// только у участников.
func OrganizerButton(role string, status models.ApprovalStatus) Button {
	if role != models.RoleParticipant {
		return ButtonNone
	}
	switch status {
	case models.ApprovalNotApplied:
		return ButtonRequest
	case models.ApprovalRejected:
		return ButtonReapply
	case models.ApprovalPending:
		return ButtonPending
	}
	return ButtonNone
}
