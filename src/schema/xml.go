package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ParseXML reads the XML form of a schema:
//
//	<customizer>
//	  <panel id="theme" title="Theme">
//	    <section id="colors" title="Colors">
//	      <setting id="accent" type="color" label="Accent" default="#ff0000">
//	        <description>Links and buttons</description>
//	      </setting>
//	    </section>
//	  </panel>
//	  <section id="footer" title="Footer">...</section>
//	</customizer>
func ParseXML(content []byte) (*File, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	root := xmlquery.FindOne(doc, "/customizer")
	if root == nil {
		return nil, errors.New("Missing <customizer> root element")
	}

	f := &File{}
	for _, p := range root.SelectElements("panel") {
		panel := Panel{ID: p.SelectAttr("id"), Title: p.SelectAttr("title")}
		for _, s := range p.SelectElements("section") {
			section, err := parseXMLSection(s)
			if err != nil {
				return nil, err
			}
			panel.Sections = append(panel.Sections, section)
		}
		f.Panels = append(f.Panels, panel)
	}
	for _, s := range root.SelectElements("section") {
		section, err := parseXMLSection(s)
		if err != nil {
			return nil, err
		}
		f.Sections = append(f.Sections, section)
	}
	return f, nil
}

func parseXMLSection(n *xmlquery.Node) (Section, error) {
	section := Section{ID: n.SelectAttr("id"), Title: n.SelectAttr("title")}
	for _, s := range n.SelectElements("setting") {
		setting := Setting{
			ID:      s.SelectAttr("id"),
			Label:   s.SelectAttr("label"),
			Type:    s.SelectAttr("type"),
			Default: s.SelectAttr("default"),
		}
		if d := s.SelectElement("description"); d != nil {
			setting.Description = strings.TrimSpace(d.InnerText())
		}
		for _, c := range s.SelectElements("choice") {
			setting.Choices = append(setting.Choices, Choice{
				Value: c.SelectAttr("value"),
				Label: strings.TrimSpace(c.InnerText()),
			})
		}
		var err error
		for attr, target := range map[string]*float64{"min": &setting.Min, "max": &setting.Max, "step": &setting.Step} {
			raw := s.SelectAttr(attr)
			if len(raw) == 0 {
				continue
			}
			if *target, err = strconv.ParseFloat(raw, 64); err != nil {
				return Section{}, fmt.Errorf("setting '%s': attribute %s: %w", setting.ID, attr, err)
			}
		}
		section.Settings = append(section.Settings, setting)
	}
	return section, nil
}
