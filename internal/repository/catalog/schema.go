package catalog

// Catalog tables. The search module only reads them.
const (
	tableStudios      = "studios"
	tableLabels       = "labels"
	tableStudioLabels = "studio_labels"
	tableScenes       = "scenes"
)

const selectStudios = `
SELECT s.id, s.name, s.added_on, s.bookmark, s.favorite,
       COALESCE(array_agg(sl.label_id ORDER BY sl.position) FILTER (WHERE sl.label_id IS NOT NULL), '{}')
FROM ` + tableStudios + ` s
LEFT JOIN ` + tableStudioLabels + ` sl ON sl.studio_id = s.id`

const (
	queryAllStudios = selectStudios + `
GROUP BY s.id
ORDER BY s.id`

	queryStudiosByIDs = selectStudios + `
WHERE s.id = ANY($1)
GROUP BY s.id
ORDER BY array_position($1, s.id)`

	queryLabels = `
SELECT id, name, COALESCE(aliases, '{}')
FROM ` + tableLabels + `
WHERE id = ANY($1)
ORDER BY array_position($1, id)`

	queryScenes = `
SELECT id, name, studio_id
FROM ` + tableScenes + `
WHERE studio_id = $1
ORDER BY id`
)
