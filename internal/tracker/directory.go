package tracker

import (
	"context"
	"sort"
	"sync"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ProjectInput is the editable part of a project.
type ProjectInput struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// ContactInput is the editable part of a contact.
type ContactInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Note    string `json:"note"`
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Chinese)
)

// compareNames orders names the way a Chinese reader expects (pinyin for Han, then Latin).
// collate.Collator is not safe for concurrent use.
func compareNames(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// ListProjects returns projects ordered by name.
func (s *Service) ListProjects(ctx context.Context) ([]records.Project, error) {
	projects, err := s.projects.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opListProjects, err)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return compareNames(projects[i].Name, projects[j].Name) < 0
	})
	return projects, nil
}

func (s *Service) CreateProject(ctx context.Context, input ProjectInput) (records.Project, error) {
	project, err := projectFromInput(input)
	if err != nil {
		return records.Project{}, err
	}
	if project.ID, err = s.newID(opSaveProject); err != nil {
		return records.Project{}, err
	}
	project.CreatedAt = s.clock().UTC()
	if _, err := s.projects.Put(ctx, project); err != nil {
		return records.Project{}, storeFailure(opSaveProject, err)
	}
	s.publishChange(records.CollectionProjects, project.ID)
	return project, nil
}

// UpdateProject replaces the editable fields of project id, keeping its creation time.
func (s *Service) UpdateProject(ctx context.Context, id string, input ProjectInput) (records.Project, error) {
	id, err := requireID(opSaveProject, id)
	if err != nil {
		return records.Project{}, err
	}
	updated, err := projectFromInput(input)
	if err != nil {
		return records.Project{}, err
	}
	existing, found, err := s.projects.Get(ctx, id)
	if err != nil {
		return records.Project{}, storeFailure(opSaveProject, err)
	}
	if !found {
		return records.Project{}, notFound(opSaveProject, records.CollectionProjects, id)
	}
	updatedAt := s.clock().UTC()
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = &updatedAt
	if _, err := s.projects.Put(ctx, updated); err != nil {
		return records.Project{}, storeFailure(opSaveProject, err)
	}
	s.publishChange(records.CollectionProjects, updated.ID)
	return updated, nil
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	id, err := requireID(opDeleteProject, id)
	if err != nil {
		return err
	}
	if _, found, err := s.projects.Get(ctx, id); err != nil {
		return storeFailure(opDeleteProject, err)
	} else if !found {
		return notFound(opDeleteProject, records.CollectionProjects, id)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return storeFailure(opDeleteProject, err)
	}
	s.publishChange(records.CollectionProjects, id)
	return nil
}

func projectFromInput(input ProjectInput) (records.Project, error) {
	project := records.Project{
		Name:        records.NormalizeText(input.Name),
		Address:     records.NormalizeText(input.Address),
		Description: records.NormalizeText(input.Description),
	}
	if project.Name == "" {
		return records.Project{}, invalidInput(opSaveProject, records.ErrMissingName)
	}
	return project, nil
}

// ListContacts returns contacts ordered by name.
func (s *Service) ListContacts(ctx context.Context) ([]records.Contact, error) {
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opListContacts, err)
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		return compareNames(contacts[i].Name, contacts[j].Name) < 0
	})
	return contacts, nil
}

func (s *Service) CreateContact(ctx context.Context, input ContactInput) (records.Contact, error) {
	contact, err := contactFromInput(input)
	if err != nil {
		return records.Contact{}, err
	}
	if contact.ID, err = s.newID(opSaveContact); err != nil {
		return records.Contact{}, err
	}
	contact.CreatedAt = s.clock().UTC()
	if _, err := s.contacts.Put(ctx, contact); err != nil {
		return records.Contact{}, storeFailure(opSaveContact, err)
	}
	s.publishChange(records.CollectionContacts, contact.ID)
	return contact, nil
}

// UpdateContact replaces the editable fields of contact id, keeping its creation time.
func (s *Service) UpdateContact(ctx context.Context, id string, input ContactInput) (records.Contact, error) {
	id, err := requireID(opSaveContact, id)
	if err != nil {
		return records.Contact{}, err
	}
	updated, err := contactFromInput(input)
	if err != nil {
		return records.Contact{}, err
	}
	existing, found, err := s.contacts.Get(ctx, id)
	if err != nil {
		return records.Contact{}, storeFailure(opSaveContact, err)
	}
	if !found {
		return records.Contact{}, notFound(opSaveContact, records.CollectionContacts, id)
	}
	updatedAt := s.clock().UTC()
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = &updatedAt
	if _, err := s.contacts.Put(ctx, updated); err != nil {
		return records.Contact{}, storeFailure(opSaveContact, err)
	}
	s.publishChange(records.CollectionContacts, updated.ID)
	return updated, nil
}

func (s *Service) DeleteContact(ctx context.Context, id string) error {
	id, err := requireID(opDeleteContact, id)
	if err != nil {
		return err
	}
	if _, found, err := s.contacts.Get(ctx, id); err != nil {
		return storeFailure(opDeleteContact, err)
	} else if !found {
		return notFound(opDeleteContact, records.CollectionContacts, id)
	}
	if err := s.contacts.Delete(ctx, id); err != nil {
		return storeFailure(opDeleteContact, err)
	}
	s.publishChange(records.CollectionContacts, id)
	return nil
}

func contactFromInput(input ContactInput) (records.Contact, error) {
	contact := records.Contact{
		Name:    records.NormalizeText(input.Name),
		Phone:   records.NormalizeText(input.Phone),
		Company: records.NormalizeText(input.Company),
		Note:    records.NormalizeText(input.Note),
	}
	switch {
	case contact.Name == "":
		return records.Contact{}, invalidInput(opSaveContact, records.ErrMissingName)
	case contact.Phone == "":
		return records.Contact{}, invalidInput(opSaveContact, records.ErrMissingPhone)
	}
	return contact, nil
}
