package common

func GetString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func GetBool(ptr *bool) bool {
	if ptr == nil {
		return false
	}
	return *ptr
}

func GetInt64(ptr *int64) int64 {
	if ptr == nil {
		return 0
	}
	return *ptr
}
