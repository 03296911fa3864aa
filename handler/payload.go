package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"maintenance-agent/internal/domain"
	"maintenance-agent/internal/usecase"
)

// nameList accepts either a JSON string ("Jane, Tom") or an array of strings.
type nameList []string

func (n *nameList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = nameList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("names must be a string or a list of strings")
	}
	*n = list
	return nil
}

// flexBool accepts JSON booleans and the strings "true", "yes" and "1".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flag must be a boolean")
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

type maintenanceRequest struct {
	EquipmentName string `json:"equipment_name"`
	CompanyName   string `json:"company_name"`
	RequestedDate string `json:"requested_date"`
	Email         string `json:"email"`
	Subject       string `json:"subject"`
}

type inductionRequest struct {
	Company         string   `json:"company"`
	Engineers       nameList `json:"engineers"`
	MaintenanceDate string   `json:"maintenance_date"`
}

type contactRequest struct {
	Email             string   `json:"email"`
	Subject           string   `json:"subject"`
	AttachmentPresent flexBool `json:"attachment_present"`
	EngineerNames     nameList `json:"engineer_names"`
}

type maintenanceResponse struct {
	Status        string               `json:"status"`
	Verdict       string               `json:"verdict"`
	Kind          string               `json:"kind,omitempty"`
	NextDue       string               `json:"next_due,omitempty"`
	RequestedDate string               `json:"requested_date,omitempty"`
	Message       string               `json:"message"`
	Conversation  *trackedConversation `json:"conversation,omitempty"`
}

// trackedConversation is the sender's conversation as reported next to a
// maintenance verdict.
type trackedConversation struct {
	conversationBody
	Created     bool   `json:"created"`
	Instruction string `json:"instruction"`
	Message     string `json:"message"`
}

func newMaintenanceResponse(out usecase.MaintenanceOutput) maintenanceResponse {
	v := out.Verdict
	resp := maintenanceResponse{
		Status:  v.Status(),
		Verdict: string(v.Outcome),
		Kind:    string(v.Kind),
		NextDue: v.NextDue,
		Message: v.Message,
	}
	if !v.RequestedDate.IsZero() {
		resp.RequestedDate = domain.FormatDate(v.RequestedDate)
	}
	if tc := out.Conversation; tc != nil {
		msg := fmt.Sprintf("Carry on from previous conversation. Current status: %s", tc.Record.Status)
		if tc.Created {
			msg = fmt.Sprintf("Started a new conversation. Current status: %s", tc.Record.Status)
		}
		resp.Conversation = &trackedConversation{
			conversationBody: newConversationBody(tc.Record),
			Created:          tc.Created,
			Instruction:      tc.Instruction,
			Message:          msg,
		}
	}
	return resp
}

type inductionResult struct {
	Engineer   string `json:"engineer"`
	Verdict    string `json:"verdict"`
	Message    string `json:"message"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

type inductionResponse struct {
	Status          string            `json:"status"`
	MaintenanceDate string            `json:"maintenance_date"`
	Results         []inductionResult `json:"results"`
}

func newInductionResponse(out usecase.InductionOutput) inductionResponse {
	results := make([]inductionResult, 0, len(out.Results))
	for _, v := range out.Results {
		r := inductionResult{Engineer: v.Engineer, Verdict: string(v.Outcome), Message: v.Message}
		if !v.Expiry.IsZero() {
			r.ExpiryDate = domain.FormatDate(v.Expiry)
		}
		results = append(results, r)
	}
	return inductionResponse{
		Status:          "success",
		MaintenanceDate: domain.FormatDate(out.ReferenceDate),
		Results:         results,
	}
}

type conversationBody struct {
	Email       string `json:"email"`
	Domain      string `json:"domain"`
	Company     string `json:"company"`
	Subject     string `json:"subject"`
	Status      string `json:"status"`
	LastUpdated string `json:"last_updated"`
	SearchKey   string `json:"search_key"`
}

func newConversationBody(rec domain.ConversationRecord) conversationBody {
	return conversationBody{
		Email:       rec.Address,
		Domain:      rec.Domain,
		Company:     rec.Company,
		Subject:     rec.Subject,
		Status:      string(rec.Status),
		LastUpdated: rec.LastUpdated,
		SearchKey:   rec.SearchKey(),
	}
}

type contactResponse struct {
	Status         string           `json:"status"`
	PreviousStatus string           `json:"previous_status,omitempty"`
	Created        bool             `json:"created"`
	Instruction    string           `json:"instruction"`
	EngineerNames  []string         `json:"engineer_names"`
	Conversation   conversationBody `json:"conversation"`
}

func newContactResponse(out usecase.ContactOutput) contactResponse {
	names := out.EngineerNames
	if names == nil {
		names = []string{}
	}
	rec := out.Record
	return contactResponse{
		Status:         string(rec.Status),
		PreviousStatus: string(out.PreviousStatus),
		Created:        out.Created,
		Instruction:    out.Instruction,
		EngineerNames:  names,
		Conversation:   newConversationBody(rec),
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
