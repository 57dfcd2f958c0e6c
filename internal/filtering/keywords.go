package filtering

import "strings"

// Hand-curated keyword sets backing the fuzzy department and job-title
// predicates. The lists are deliberately loose and Japanese-centric; they
// encode domain adjacency, not an exact taxonomy.
var (
	relatedDomainKeywords = []string{
		"ai", "機械学習", "データ", "ml", "データサイエンス", "ai推進", "aiアクセラレーション",
	}

	engineerKeywords = []string{"エンジニア", "engineer"}
	dataKeywords     = []string{"データ", "data", "サイエンティスト", "scientist"}
	aiTitleKeywords  = []string{"ai", "ml", "機械学習", "machine learning", "aiエンジニア", "mlエンジニア"}
)

// IsRelatedDepartment reports whether dept is domain-adjacent to at least one
// allowed department: both sides must contain a shared keyword from the
// related-domain set. Exact membership is checked by the caller first.
func IsRelatedDepartment(dept string, allowed []string) bool {
	deptLower := strings.ToLower(dept)
	for _, keyword := range relatedDomainKeywords {
		if !strings.Contains(deptLower, keyword) {
			continue
		}
		for _, entry := range allowed {
			if strings.Contains(strings.ToLower(entry), keyword) {
				return true
			}
		}
	}
	return false
}

// IsSimilarJobTitle reports whether title names a role type similar to at
// least one allowed title, using the engineer, data/scientist and AI/ML
// keyword buckets. Both the candidate title and an allowed entry must share a
// keyword from the same bucket.
func IsSimilarJobTitle(title string, allowed []string) bool {
	titleLower := strings.ToLower(title)
	for _, entry := range allowed {
		entryLower := strings.ToLower(entry)
		if sharesKeyword(titleLower, entryLower, engineerKeywords) {
			return true
		}
		if sharesKeyword(titleLower, entryLower, dataKeywords) {
			return true
		}
		if sharesKeyword(titleLower, entryLower, aiTitleKeywords) {
			return true
		}
	}
	return false
}

func sharesKeyword(a, b string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(a, keyword) && strings.Contains(b, keyword) {
			return true
		}
	}
	return false
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
