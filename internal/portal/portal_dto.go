package portal

type RejectRequest struct {
	Confirm bool `json:"confirm"`
}
