package analytics

// mergeLabels joins aggregation buckets with the service title map. The
// sentinel bucket keeps its own label; a bucket whose service id resolves
// to nothing is labeled as dangling rather than hidden. Bucket order is
// preserved.
func mergeLabels(buckets []Bucket, titles map[string]string) []Row {
	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		label := LabelDangling
		if b.ServiceID == UnknownServiceID {
			label = LabelGeneral
		} else if title, ok := titles[b.ServiceID]; ok {
			label = title
		}
		rows = append(rows, Row{
			ServiceID:    b.ServiceID,
			ServiceTitle: label,
			Type:         b.Type,
			Count:        b.Count,
		})
	}
	return rows
}
