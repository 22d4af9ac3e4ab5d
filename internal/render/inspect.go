package render

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// keep pdfcpu from writing a config dir under the user's home
	pdfmodel.ConfigPath = "disable"
}

// Info describes a PDF read back from bytes
type Info struct {
	Pages      int               `json:"pages"`
	Size       int               `json:"size"`
	Properties map[string]string `json:"properties,omitempty"`
}

func pdfConfig() *pdfmodel.Configuration {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return conf
}

// Inspect validates a PDF and counts its pages
func Inspect(data []byte) (*Info, error) {
	conf := pdfConfig()
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	props, err := api.Properties(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties: %w", err)
	}

	return &Info{Pages: pages, Size: len(data), Properties: props}, nil
}

// Stamp embeds key/value properties into the document info dictionary
func Stamp(data []byte, props map[string]string) ([]byte, error) {
	if len(props) == 0 {
		return data, nil
	}

	var out bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(data), &out, props, pdfConfig()); err != nil {
		return nil, fmt.Errorf("failed to stamp properties: %w", err)
	}
	return out.Bytes(), nil
}
