package mockapi

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/birbparty/clusterapi/sdk/models"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed lists the objects a store starts with.
type Seed struct {
	Clusters      []Record `yaml:"clusters"`
	VirtualHosts  []Record `yaml:"virtual_hosts"`
	Cmses         []Record `yaml:"cmses"`
	MailAccounts  []Record `yaml:"mail_accounts"`
	PassengerApps []Record `yaml:"passenger_apps"`
	DomainRouters []Record `yaml:"domain_routers"`
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// LoadSeed reads the seed at path, or the built-in seed when path is empty.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

func (s *Seed) collections() []struct {
	kind    string
	records []Record
} {
	return []struct {
		kind    string
		records []Record
	}{
		{KindClusters, s.Clusters},
		{KindVirtualHosts, s.VirtualHosts},
		{KindCmses, s.Cmses},
		{KindMailAccounts, s.MailAccounts},
		{KindPassengerApps, s.PassengerApps},
		{KindDomainRouters, s.DomainRouters},
	}
}

// decodeAs checks that rec decodes into the client model T.
func decodeAs[T any, PT interface {
	*T
	models.Model
}](rec Record) error {
	_, err := models.Decode[T, PT](rec)
	return err
}

// modelCheck validates stored objects of each kind against the client
// models, so that everything the mock serves is decodable by the SDK.
var modelCheck = map[string]func(Record) error{
	KindClusters:        decodeAs[models.Cluster],
	KindVirtualHosts:    decodeAs[models.VirtualHost],
	KindCmses:           decodeAs[models.Cms],
	KindMailAccounts:    decodeAs[models.MailAccount],
	KindPassengerApps:   decodeAs[models.PassengerApp],
	KindDomainRouters:   decodeAs[models.DomainRouter],
	KindTaskCollections: decodeAs[models.TaskCollection],
}

// Load inserts every seeded object. Objects failing their model check are
// rejected and loading stops.
func (s *Store) Load(seed *Seed) error {
	for _, c := range seed.collections() {
		for i, rec := range c.records {
			norm, err := normalize(rec)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", c.kind, i, err)
			}
			if err := modelCheck[c.kind](norm); err != nil {
				return fmt.Errorf("%s[%d]: %w", c.kind, i, err)
			}
			if _, err := s.Insert(c.kind, norm); err != nil {
				return fmt.Errorf("%s[%d]: %w", c.kind, i, err)
			}
		}
	}
	return nil
}
