package template

// MergeContexts merges maps left to right into a new map. Later maps win on
// duplicate keys; the inputs are not modified.
func MergeContexts(contexts ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for _, ctx := range contexts {
		for key, value := range ctx {
			result[key] = value
		}
	}

	return result
}
