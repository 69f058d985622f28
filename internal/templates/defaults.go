package templates

import "github.com/starford/artha/internal/models"

func defaultTemplate(t models.ItemType) string {
	switch t {
	case models.TypeTask:
		return taskTemplate
	case models.TypeEpic:
		return epicTemplate
	case models.TypeArea:
		return areaTemplate
	case models.TypeResource:
		return resourceTemplate
	}
	return basicTemplate
}

const taskTemplate = `# {{title}}

## Status
{{status}}

## Details
- **Due Date**: {{dueDate}}
- **Area**: {{area}}
- **Priority**: {{priority}}
- **Tags**: {{tags}}

## Description
{{content}}

## Notes
- Created: {{createdAt}}
- Last Updated: {{updatedAt}}
`

const epicTemplate = `# {{title}}

## Status
{{status}}

## Details
- **Due Date**: {{dueDate}}
- **Area**: {{area}}
- **Image**: {{image}}

## Tasks
{{tasks}}

## Description
{{content}}

## Notes
- Created: {{createdAt}}
- Last Updated: {{updatedAt}}
`

const areaTemplate = `# {{title}}

## Status
{{status}}

## Purpose
{{purpose}}

## Maintenance
{{maintenance}}

## Current Focus
{{currentFocus.primary}}

## Active Projects
{{activeProjects}}

## Description
{{content}}

## Notes
- Created: {{createdAt}}
- Last Updated: {{updatedAt}}
`

const resourceTemplate = `# {{title}}

## Status
{{status}}

## Purpose
{{purpose}}

## Content Overview
{{contentOverview}}

## Key Topics
{{keyTopics}}

## Usage Notes
{{usageNotes}}

## Maintenance
{{maintenance}}

## Areas
{{areas}}

## Description
{{content}}

## Notes
- Created: {{createdAt}}
- Last Updated: {{updatedAt}}
`

const basicTemplate = `# {{title}}

{{content}}
`
