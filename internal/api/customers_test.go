package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCustomers(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers", r.URL.Path)
		assert.Equal(t, "smith", r.URL.Query().Get("q"))
		w.Write(jsonResponse([]map[string]any{
			{"id": "c1", "first_name": "Jo", "last_name": "Smith"},
		}))
	})

	customers, err := client.ListCustomers(QueryParams{"q": "smith"})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Jo Smith", customers[0].FullName())
}

func TestCreateAndUpdateCustomer(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "Ada", body["first_name"])
			w.Write(jsonResponse(map[string]any{"id": "c2", "first_name": "Ada"}))
		case http.MethodPatch:
			assert.Equal(t, "/api/customers/c2", r.URL.Path)
			assert.Equal(t, "555-0100", body["phone"])
			w.Write(jsonResponse(map[string]any{"id": "c2", "first_name": "Ada", "phone": "555-0100"}))
		}
	})

	created, err := client.CreateCustomer(CreateCustomerInput{FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)

	phone := "555-0100"
	updated, err := client.UpdateCustomer("c2", UpdateCustomerInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)
}

func TestDeleteCustomerFailureMessage(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"customer has open jobs"}`))
	})

	err := client.DeleteCustomer("c1")
	require.Error(t, err)
	assert.Equal(t, "customer has open jobs", err.Error())
}
