package models

// OrganizerDecision — сообщение об одобрении или отклонении заявки
// на роль организатора, отправляемое в очередь уведомлений.
type OrganizerDecision struct {
	UserUID  string         `json:"user_uid"`
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Decision ApprovalStatus `json:"decision"`
}
