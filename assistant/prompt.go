package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/uyouii/littlesprout/journal"
	"github.com/uyouii/littlesprout/model"
)

const promptTemplate = `You are a helpful pediatric growth assistant.
Please analyze the following growth data for a child.

Child Profile:
- Name: %s
- Gender: %s
- Birth Date: %s

Recent Growth Records (Height in cm, Weight in kg):
%s

Task:
1. Calculate the current age based on the last record or today's date.
2. Compare the latest stats roughly against WHO child growth standards (percentiles).
3. Provide a brief, encouraging summary of their growth trend.
4. Mention if the growth seems steady or if there are any sudden changes.
5. Keep the tone warm, reassuring, and professional.
6. IMPORTANT: Add a disclaimer that you are an AI and this is not medical advice.

Output format: a short paragraph (max 150 words).
`

// RecentRecords returns the last n records by date, oldest first.
func RecentRecords(records []model.GrowthRecord, n int) []model.GrowthRecord {
	sorted := journal.SortRecords(records)
	if n > 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

func BuildPrompt(profile *model.ChildProfile, records []model.GrowthRecord) (string, error) {
	if records == nil {
		records = []model.GrowthRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}
	return fmt.Sprintf(promptTemplate, profile.Name, profile.Gender, profile.BirthDate, data), nil
}
