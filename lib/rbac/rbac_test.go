package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/company/approvals/{id}/respond [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r1 := pathToRegex(path)

		validUri := "/api/v1/company/approvals/123-321/respond"
		isMatch := r1.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri := "/api/v1/company/approvals/respond"
		isMatch = r1.MatchString(invalidUri)
		require.Equal(t, false, isMatch)

		path, method, err = parseSwaggerPattern("/api/v1/company/approvals/{id}/attachment/{attachmentId} [get]")
		require.Nil(t, err)
		require.Equal(t, GET, method)
		r2 := pathToRegex(path)

		validUri = "/api/v1/company/approvals/123-321/attachment/qwe-ewr123-wr-12"
		isMatch = r2.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri = "/api/v1/company/approvals/we-ewr123-wr-12/attachment"
		isMatch = r2.MatchString(invalidUri)
		require.Equal(t, false, isMatch)
	})

	t.Run(`override restricted to owner and admin`, func(t *testing.T) {
		NewHandler()
		handler, found := Instance.GetRuleFunc("PUT", "/api/v1/company/approvals/abc-123")
		require.Equal(t, true, found)
		require.Equal(t, true, handler("c1", "u1", "COMPANY_OWNER_ROLE", "/api/v1/company/approvals/abc-123"))
		require.Equal(t, true, handler("c1", "u1", "COMPANY_ADMIN_ROLE", "/api/v1/company/approvals/abc-123"))
		require.Equal(t, false, handler("c1", "u1", "COMPANY_USER_ROLE", "/api/v1/company/approvals/abc-123"))
	})
}
