package notification

import (
	"context"
	"strings"
	"time"
)

// TemplateView is a built-in template merged with its override, if any.
type TemplateView struct {
	Definition
	Overridden bool       `json:"overridden"`
	IsActive   bool       `json:"is_active"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type SaveTemplateRequest struct {
	Subject  string `json:"subject" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

type PreviewRequest struct {
	Subject string            `json:"subject"`
	Content string            `json:"content"`
	Vars    map[string]string `json:"vars"`
}

type Preview struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (s *Service) ListTemplates(ctx context.Context) ([]TemplateView, error) {
	overrides, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]EmailTemplate, len(overrides))
	for _, o := range overrides {
		byName[o.Name] = o
	}

	defs := Definitions()
	out := make([]TemplateView, 0, len(defs))
	for _, d := range defs {
		out = append(out, mergeView(d, byName[d.Name], byName[d.Name].ID != 0))
	}
	return out, nil
}

func (s *Service) GetTemplate(ctx context.Context, name string) (*TemplateView, error) {
	def, ok := Lookup(name)
	if !ok {
		return nil, ErrUnknownTemplate
	}
	override, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	var o EmailTemplate
	if override != nil {
		o = *override
	}
	view := mergeView(def, o, override != nil)
	return &view, nil
}

func (s *Service) SaveTemplate(ctx context.Context, name string, actorID int64, req SaveTemplateRequest) (*TemplateView, error) {
	if _, ok := Lookup(name); !ok {
		return nil, ErrUnknownTemplate
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyTemplate
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	t := &EmailTemplate{
		Name:      name,
		Subject:   strings.TrimSpace(req.Subject),
		Content:   req.Content,
		IsActive:  active,
		UpdatedBy: &actorID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return s.GetTemplate(ctx, name)
}

// ResetTemplate drops the override so the built-in template is used again.
func (s *Service) ResetTemplate(ctx context.Context, name string) (*TemplateView, error) {
	if _, ok := Lookup(name); !ok {
		return nil, ErrUnknownTemplate
	}
	if _, err := s.repo.DeleteByName(ctx, name); err != nil {
		return nil, err
	}
	return s.GetTemplate(ctx, name)
}

// PreviewTemplate renders the given draft (or the stored template) with
// sample values, overlaid by req.Vars.
func (s *Service) PreviewTemplate(ctx context.Context, name string, req PreviewRequest) (*Preview, error) {
	subject, content, err := s.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Subject) != "" {
		subject = req.Subject
	}
	if strings.TrimSpace(req.Content) != "" {
		content = req.Content
	}

	vars := s.sampleVars()
	for k, v := range req.Vars {
		vars[k] = v
	}

	return &Preview{
		Subject: Render(subject, vars, false),
		HTML:    Render(content, vars, true),
	}, nil
}

func (s *Service) sampleVars() map[string]string {
	start := time.Now().In(s.loc).Add(24 * time.Hour).Truncate(time.Hour)
	vars := s.bookingVars(BookingMail{
		Code:            "NSDEMO01",
		CustomerName:    "Nguyễn Văn A",
		LocationName:    "Nerd Society Hồ Tùng Mậu",
		LocationAddress: "Hà Nội",
		RoomName:        "Meeting Room 1",
		ServiceName:     "Meeting 2h",
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		GuestCount:      4,
		EstimatedAmount: 200000,
		DepositAmount:   100000,
		CancelReason:    "Khách đổi lịch",
	})
	vars["resetLink"] = s.siteURL + "/reset-password?token=demo"
	return vars
}

func mergeView(def Definition, o EmailTemplate, overridden bool) TemplateView {
	view := TemplateView{Definition: def, IsActive: true}
	if !overridden {
		return view
	}
	view.Overridden = true
	view.IsActive = o.IsActive
	view.Subject = o.Subject
	view.Content = o.Content
	updated := o.UpdatedAt
	view.UpdatedAt = &updated
	return view
}
