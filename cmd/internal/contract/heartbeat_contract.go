package contract

type PendingAccount struct {
	AccountID string  `json:"account_id"`
	Minutes   []int64 `json:"minutes"`
}

type PendingResponse struct {
	Mode     string            `json:"mode"`
	Accounts []*PendingAccount `json:"accounts"`
}

type DispatchResponse struct {
	AccountID string  `json:"account_id"`
	Events    int     `json:"events"`
	Error     *string `json:"error,omitempty"`
}

type FlushResponse struct {
	Dispatches []*DispatchResponse `json:"dispatches"`
}
