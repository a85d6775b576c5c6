package models

// ServiceType names a kind of maintenance work.
type ServiceType string

const (
	ServiceOilChange          ServiceType = "Oil Change"
	ServiceTireRotation       ServiceType = "Tire Rotation"
	ServiceBrakeInspection    ServiceType = "Brake Inspection"
	ServiceAirFilter          ServiceType = "Air Filter Replacement"
	ServiceTransmissionFluid  ServiceType = "Transmission Fluid Change"
	ServiceCoolantFlush       ServiceType = "Coolant System Flush"
	ServiceSparkPlugs         ServiceType = "Spark Plugs Replacement"
	ServiceTimingBelt         ServiceType = "Timing Belt Replacement"
	ServiceBatteryReplacement ServiceType = "Battery Replacement"
	ServiceWiperBlades        ServiceType = "Wiper Blades Replacement"
)

// ServiceInterval is the default recurrence of a service type.
type ServiceInterval struct {
	Miles  int
	Months int
}

// AllServiceTypes lists every service type in catalogue order.
var AllServiceTypes = []ServiceType{
	ServiceOilChange,
	ServiceTireRotation,
	ServiceBrakeInspection,
	ServiceAirFilter,
	ServiceTransmissionFluid,
	ServiceCoolantFlush,
	ServiceSparkPlugs,
	ServiceTimingBelt,
	ServiceBatteryReplacement,
	ServiceWiperBlades,
}

// DefaultIntervals holds the manufacturer-agnostic default intervals.
var DefaultIntervals = map[ServiceType]ServiceInterval{
	ServiceOilChange:          {Miles: 5000, Months: 6},
	ServiceTireRotation:       {Miles: 10000, Months: 12},
	ServiceBrakeInspection:    {Miles: 15000, Months: 12},
	ServiceAirFilter:          {Miles: 15000, Months: 12},
	ServiceTransmissionFluid:  {Miles: 30000, Months: 24},
	ServiceCoolantFlush:       {Miles: 30000, Months: 24},
	ServiceSparkPlugs:         {Miles: 60000, Months: 36},
	ServiceTimingBelt:         {Miles: 90000, Months: 60},
	ServiceBatteryReplacement: {Miles: 50000, Months: 36},
	ServiceWiperBlades:        {Miles: 15000, Months: 12},
}

var serviceDescriptions = map[ServiceType]string{
	ServiceOilChange:          "Replace engine oil and filter to maintain engine performance and longevity.",
	ServiceTireRotation:       "Rotate tires to ensure even wear and extend tire life.",
	ServiceBrakeInspection:    "Inspect brake pads, rotors, and fluid to ensure safe stopping performance.",
	ServiceAirFilter:          "Replace air filter to maintain engine efficiency and performance.",
	ServiceTransmissionFluid:  "Replace transmission fluid to maintain smooth gear shifting and extend transmission life.",
	ServiceCoolantFlush:       "Flush and replace coolant to prevent overheating and protect engine components.",
	ServiceSparkPlugs:         "Replace spark plugs to maintain engine performance and fuel efficiency.",
	ServiceTimingBelt:         "Replace timing belt to prevent engine damage and maintain proper engine timing.",
	ServiceBatteryReplacement: "Replace battery to ensure reliable starting and electrical system performance.",
	ServiceWiperBlades:        "Replace wiper blades to maintain visibility during inclement weather.",
}

// Description returns the customer-facing description of the service type.
func (s ServiceType) Description() string {
	return serviceDescriptions[s]
}

// IsValidServiceType checks if a service type is in the catalogue
func IsValidServiceType(s ServiceType) bool {
	_, ok := DefaultIntervals[s]
	return ok
}

// DefaultSchedule builds a schedule for make/model using the default interval of the service type.
func DefaultSchedule(make, model string, s ServiceType) ServiceSchedule {
	iv := DefaultIntervals[s]
	return ServiceSchedule{
		Make:           make,
		Model:          model,
		ServiceType:    s,
		Description:    s.Description(),
		IntervalMiles:  iv.Miles,
		IntervalMonths: iv.Months,
	}
}
