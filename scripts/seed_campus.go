// seed_campus.go — standalone script to seed students, projects, and
// corrections from a roster CSV via the gradebook API.
//
// CSV columns: student_name,project_name,project_weight,score
//
// Usage:
//
//	go run scripts/seed_campus.go -roster roster.csv -api http://localhost:8700
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
)

type created struct {
	ID string `json:"id"`
}

func main() {
	rosterPath := flag.String("roster", "roster.csv", "path to roster CSV")
	apiURL := flag.String("api", "http://localhost:8700", "gradebook API base URL")
	dryRun := flag.Bool("dry-run", false, "print rows without posting")
	flag.Parse()

	f, err := os.Open(*rosterPath)
	if err != nil {
		log.Fatalf("open roster: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		log.Fatalf("parse roster: %v", err)
	}

	students := map[string]string{}
	projects := map[string]string{}

	for i, row := range rows {
		if len(row) != 4 {
			log.Fatalf("row %d: expected 4 columns, got %d", i+1, len(row))
		}
		studentName, projectName := row[0], row[1]
		weight, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			log.Fatalf("row %d: bad weight %q", i+1, row[2])
		}
		score, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			log.Fatalf("row %d: bad score %q", i+1, row[3])
		}

		if *dryRun {
			fmt.Printf("%s: %s (w=%.1f) -> %.1f\n", studentName, projectName, weight, score)
			continue
		}

		studentID, ok := students[studentName]
		if !ok {
			studentID = post(*apiURL+"/api/v1/students", map[string]interface{}{"name": studentName})
			students[studentName] = studentID
		}
		projectID, ok := projects[projectName]
		if !ok {
			projectID = post(*apiURL+"/api/v1/projects", map[string]interface{}{
				"name": projectName, "weight": weight,
			})
			projects[projectName] = projectID
		}

		post(*apiURL+"/api/v1/corrections", map[string]interface{}{
			"student_id": studentID,
			"project_id": projectID,
			"score":      score,
		})
	}

	if !*dryRun {
		log.Printf("seeded %d students, %d projects, %d corrections",
			len(students), len(projects), len(rows))
	}
}

func post(url string, body map[string]interface{}) string {
	payload, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	var c created
	_ = json.NewDecoder(resp.Body).Decode(&c)
	return c.ID
}
