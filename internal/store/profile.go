package store

import (
	"context"
	"fmt"
)

// Profile is the assembled view of everything on file for one company:
// the company record plus its active child collections. Financials holds
// only the most recent year.
type Profile struct {
	Company        *Company            `json:"company"`
	Contacts       []*Contact          `json:"contacts,omitempty"`
	Certifications []*Certification    `json:"certifications,omitempty"`
	Insurance      []*InsurancePolicy  `json:"insurance,omitempty"`
	Financials     *FinancialRecord    `json:"financials,omitempty"`
	Experience     []*ExperienceRecord `json:"experience,omitempty"`
	TeamMembers    []*TeamMember       `json:"team_members,omitempty"`
	Equipment      []*EquipmentItem    `json:"equipment,omitempty"`
}

// GetCompanyProfile assembles the full profile for a company by name.
// Certifications and insurance are filtered to active records; experience
// comes back newest first. Returns (nil, nil) when the company doesn't
// exist.
func (s *SQLiteStore) GetCompanyProfile(ctx context.Context, name string) (*Profile, error) {
	company, err := s.GetCompany(ctx, name)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}

	p := &Profile{Company: company}
	if p.Contacts, err = s.ListContacts(ctx, company.ID); err != nil {
		return nil, fmt.Errorf("loading contacts: %w", err)
	}
	if p.Certifications, err = s.ListCertifications(ctx, company.ID, true); err != nil {
		return nil, fmt.Errorf("loading certifications: %w", err)
	}
	if p.Insurance, err = s.ListInsurance(ctx, company.ID, true); err != nil {
		return nil, fmt.Errorf("loading insurance: %w", err)
	}
	if p.Financials, err = s.LatestFinancials(ctx, company.ID); err != nil {
		return nil, fmt.Errorf("loading financials: %w", err)
	}
	if p.Experience, err = s.ListExperience(ctx, company.ID); err != nil {
		return nil, fmt.Errorf("loading experience: %w", err)
	}
	if p.TeamMembers, err = s.ListTeamMembers(ctx, company.ID); err != nil {
		return nil, fmt.Errorf("loading team members: %w", err)
	}
	if p.Equipment, err = s.ListEquipment(ctx, company.ID); err != nil {
		return nil, fmt.Errorf("loading equipment: %w", err)
	}
	return p, nil
}
