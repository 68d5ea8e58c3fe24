// render_profile renders a saved profile JSON into a template file.
//
//	go run ./tools -profile profile.json -template template.html > out.html
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"resumabuilder/internal/model"
	"resumabuilder/internal/render"
)

func main() {
	profilePath := flag.String("profile", "profile.json", "profile JSON, either bare or under a \"profile\" key")
	tplPath := flag.String("template", "template.html", "template with {{token}} placeholders")
	aiText := flag.String("ai", "", "file whose content fills {{ai_resume}}")
	flag.Parse()

	b, err := os.ReadFile(*profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read profile: %v\n", err)
		os.Exit(2)
	}
	var wrapped struct {
		Profile *model.Profile `json:"profile"`
	}
	var profile model.Profile
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Profile != nil {
		profile = *wrapped.Profile
	} else if err := json.Unmarshal(b, &profile); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}
	profile.Normalize()

	tpl, err := os.ReadFile(*tplPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read template: %v\n", err)
		os.Exit(2)
	}
	var extra string
	if *aiText != "" {
		ab, err := os.ReadFile(*aiText)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read ai text: %v\n", err)
			os.Exit(2)
		}
		extra = string(ab)
	}

	fmt.Print(render.Render(string(tpl), render.Data{Profile: profile, AIText: extra}))
}
