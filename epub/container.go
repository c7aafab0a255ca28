package epub

import (
	"encoding/xml"
	"fmt"
)

// containerXML is the structure of META-INF/container.xml. The single
// rootfile points reading systems at the package document.
type containerXML struct {
	XMLName   xml.Name  `xml:"container"`
	Version   string    `xml:"version,attr"`
	Xmlns     string    `xml:"xmlns,attr"`
	Rootfiles rootfiles `xml:"rootfiles"`
}

type rootfiles struct {
	Rootfile []rootfile `xml:"rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// buildContainer serializes META-INF/container.xml.
func buildContainer() ([]byte, error) {
	c := containerXML{
		Version: "1.0",
		Xmlns:   "urn:oasis:names:tc:opendocument:xmlns:container",
		Rootfiles: rootfiles{
			Rootfile: []rootfile{{
				FullPath:  contentDir + "/" + opfName,
				MediaType: "application/oebps-package+xml",
			}},
		},
	}
	return marshalXML(c, "")
}

// marshalXML serializes a document with the XML declaration and an
// optional doctype line.
func marshalXML(doc any, doctype string) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("epub: marshal: %w", err)
	}

	out := make([]byte, 0, len(xml.Header)+len(doctype)+len(body)+2)
	out = append(out, xml.Header...)
	if doctype != "" {
		out = append(out, doctype...)
		out = append(out, '\n')
	}
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}
