package api

import "fmt"

// --- Customer Methods ---

func (c *Client) ListCustomers(params QueryParams) ([]Customer, error) {
	data, err := c.get(buildQuery("/api/customers", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Customer](data)
}

func (c *Client) GetCustomer(id string) (*Customer, error) {
	data, err := c.get(fmt.Sprintf("/api/customers/%s", id))
	if err != nil {
		return nil, err
	}
	return decodeOne[Customer](data)
}

func (c *Client) CreateCustomer(input CreateCustomerInput) (*Customer, error) {
	data, err := c.post("/api/customers", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Customer](data)
}

func (c *Client) UpdateCustomer(id string, input UpdateCustomerInput) (*Customer, error) {
	data, err := c.patch(fmt.Sprintf("/api/customers/%s", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Customer](data)
}

func (c *Client) DeleteCustomer(id string) error {
	data, err := c.del(fmt.Sprintf("/api/customers/%s", id))
	if err != nil {
		return err
	}
	return decodeAck(data)
}
