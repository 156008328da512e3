// Package content holds the portfolio copy: profile, projects, experience,
// skills, radar chart, terminal commands and contact settings. The default
// content is embedded; an override file with the same YAML layout can be
// supplied at startup.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kevelmun/portfolio/internal/contact"
	"github.com/kevelmun/portfolio/internal/radar"
	"github.com/kevelmun/portfolio/internal/terminal"
)

//go:embed portfolio.yaml
var defaultYAML []byte

// Owner identifies the person the portfolio belongs to.
type Owner struct {
	Name      string `yaml:"name"`
	FullName  string `yaml:"full_name"`
	Caption   string `yaml:"caption"`
	Photo     string `yaml:"photo"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Location  string `yaml:"location"`
	GitHub    string `yaml:"github"`
	LinkedIn  string `yaml:"linkedin"`
	ShellUser string `yaml:"shell_user"`
}

// Hero is the opening section.
type Hero struct {
	Availability string   `yaml:"availability"`
	Headline     string   `yaml:"headline"`
	Badges       []string `yaml:"badges"`
	Pitch        string   `yaml:"pitch"`
}

// Summary is the about section.
type Summary struct {
	Recent     string   `yaml:"recent"`
	Paragraphs []string `yaml:"paragraphs"`
}

// Project is one project card.
type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Code        string   `yaml:"code"`
	Demo        string   `yaml:"demo"`
}

// Experience is one timeline entry.
type Experience struct {
	Role    string   `yaml:"role"`
	Company string   `yaml:"company"`
	Period  string   `yaml:"period"`
	Bullets []string `yaml:"bullets"`
}

// SkillGroup is one card inside a skills tab.
type SkillGroup struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

// SkillTab is one tab of the skills browser.
type SkillTab struct {
	Key    string       `yaml:"key"`
	Title  string       `yaml:"title"`
	Groups []SkillGroup `yaml:"groups"`
}

// Terminal holds the commands the typing terminal plays.
type Terminal struct {
	Hint     string             `yaml:"hint"`
	Commands []terminal.Command `yaml:"commands"`
}

// Contact configures the WhatsApp redirect.
type Contact struct {
	// WhatsApp is the international phone number the contact form
	// redirects to.
	WhatsApp string `yaml:"whatsapp"`
	// Message is a text/template rendering the prefilled chat message.
	Message string `yaml:"message"`
}

// Portfolio is the full page content.
type Portfolio struct {
	Owner      Owner        `yaml:"owner"`
	Hero       Hero         `yaml:"hero"`
	Summary    Summary      `yaml:"summary"`
	Projects   []Project    `yaml:"projects"`
	Experience []Experience `yaml:"experience"`
	Skills     []SkillTab   `yaml:"skills"`
	Radar      radar.Chart  `yaml:"radar"`
	Terminal   Terminal     `yaml:"terminal"`
	Contact    Contact      `yaml:"contact"`
	Footer     string       `yaml:"footer"`
}

// Default returns the embedded portfolio.
func Default() (*Portfolio, error) {
	return Parse(defaultYAML)
}

// Load reads the portfolio at path, or the embedded default when path is
// empty.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a portfolio document. Unknown keys are
// rejected so typos in override files surface at startup.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate reports every problem in the portfolio at once.
func (p *Portfolio) Validate() error {
	var errs []error
	if p.Owner.Name == "" {
		errs = append(errs, errors.New("owner.name is required"))
	}
	if _, err := terminal.NewCatalog(p.Terminal.Commands); err != nil {
		errs = append(errs, err)
	}
	for i, cmd := range p.Terminal.Commands {
		if cmd.Invocation == "" {
			errs = append(errs, fmt.Errorf("terminal.commands[%d].cmd is required", i))
		}
	}
	if err := p.Radar.Validate(); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]bool)
	for i, tab := range p.Skills {
		if tab.Key == "" {
			errs = append(errs, fmt.Errorf("skills[%d].key is required", i))
			continue
		}
		if seen[tab.Key] {
			errs = append(errs, fmt.Errorf("skills: duplicate tab %q", tab.Key))
		}
		seen[tab.Key] = true
	}
	if contact.Digits(p.Contact.WhatsApp) == "" {
		errs = append(errs, errors.New("contact.whatsapp is required"))
	} else if _, err := contact.NewComposer(p.Contact.WhatsApp, p.Contact.Message); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Catalog returns the terminal catalog.
func (p *Portfolio) Catalog() (*terminal.Catalog, error) {
	return terminal.NewCatalog(p.Terminal.Commands)
}

// Tab looks up a skills tab by key.
func (p *Portfolio) Tab(key string) (SkillTab, bool) {
	for _, t := range p.Skills {
		if t.Key == key {
			return t, true
		}
	}
	return SkillTab{}, false
}

// DefaultTab returns the key of the first skills tab.
func (p *Portfolio) DefaultTab() string {
	if len(p.Skills) == 0 {
		return ""
	}
	return p.Skills[0].Key
}
