package record

// CollisionVehicle is a vehicle involved in a collision
type CollisionVehicle struct {
	Plate      string `json:"plate"`
	Make       string `json:"make,omitempty"`
	Model      string `json:"model,omitempty"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	DriverImg  string `json:"driverImg,omitempty"`
	VehicleImg string `json:"vehicleImg,omitempty"`
}

// Witness is a statement taken at the scene
type Witness struct {
	Type      string `json:"type"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Statement string `json:"statement,omitempty"`
}

// Collision is an accident report
type Collision struct {
	Base
	Team           string             `json:"team,omitempty"`
	Location       string             `json:"location,omitempty"`
	Desc           string             `json:"desc,omitempty"`
	State          string             `json:"state,omitempty"`
	Status         string             `json:"status,omitempty"`
	NoOfCars       int                `json:"noOfCars"`
	NoOfInjuries   int                `json:"noOfInjuries"`
	NoOfFatalities int                `json:"noOfFatalities"`
	Notes          string             `json:"notes,omitempty"`
	Vehicle        []CollisionVehicle `json:"vehicle"`
	Witness        []Witness          `json:"witness"`
	Img            string             `json:"img,omitempty"`
}
