package models

import "github.com/birbparty/clusterapi/sdk/validation"

// DetailMessage is the error body the API returns with non-2xx responses.
type DetailMessage struct {
	detail string
}

func (d *DetailMessage) Detail() string { return d.detail }

func (d *DetailMessage) SetDetail(detail string) error {
	if err := validation.Value("detail", detail).MaxLength(255).Pattern(patternPrintable).Validate(); err != nil {
		return err
	}
	d.detail = detail
	return nil
}

// FromMap implements Model. A missing detail decodes as the empty string,
// which the printable pattern rejects.
func (d *DetailMessage) FromMap(data map[string]any) error {
	var m DetailMessage
	r := newReader(data)
	field(r, "detail", "", asString, m.SetDetail)
	if err := r.done(); err != nil {
		return err
	}
	*d = m
	return nil
}

// ToMap implements Model.
func (d *DetailMessage) ToMap() map[string]any {
	return map[string]any{"detail": d.detail}
}
