package api

import "fmt"

// --- Vehicle Methods ---

func (c *Client) ListVehicles(params QueryParams) ([]Vehicle, error) {
	data, err := c.get(buildQuery("/api/vehicles", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Vehicle](data)
}

func (c *Client) GetVehicle(id string) (*Vehicle, error) {
	data, err := c.get(fmt.Sprintf("/api/vehicles/%s", id))
	if err != nil {
		return nil, err
	}
	return decodeOne[Vehicle](data)
}

func (c *Client) CreateVehicle(input CreateVehicleInput) (*Vehicle, error) {
	data, err := c.post("/api/vehicles", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Vehicle](data)
}

func (c *Client) UpdateVehicle(id string, input UpdateVehicleInput) (*Vehicle, error) {
	data, err := c.patch(fmt.Sprintf("/api/vehicles/%s", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Vehicle](data)
}

func (c *Client) DeleteVehicle(id string) error {
	data, err := c.del(fmt.Sprintf("/api/vehicles/%s", id))
	if err != nil {
		return err
	}
	return decodeAck(data)
}
