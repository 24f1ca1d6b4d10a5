package inverter

import "fmt"

const pvStringCount = 4

func pvStringBlock() Block {
	parameters := make([]Parameter, 0, pvStringCount*2)
	for i := uint16(1); i <= pvStringCount; i++ {
		base := 32014 + 2*i
		parameters = append(parameters,
			param(fmt.Sprintf("pv_%02d_voltage", i), Int16, "", "V", 10, base, 1, false, true),
			param(fmt.Sprintf("pv_%02d_current", i), Int16, "", "A", 100, base+1, 1, false, true),
		)
	}
	return mustBlock(parameters...)
}

// DefaultCatalog is the SUN2000 holding-register map. Addresses, lengths and
// gains follow the vendor register reference; blocks group only registers
// that are contiguous on the device.
func DefaultCatalog() Catalog {
	return Catalog{
		mustBlock(
			param("model_name", Text, "", "", 1, 30000, 15, true, true),
			param("serial_number", Text, "", "", 1, 30015, 10, true, true),
			param("product_number", Text, "", "", 1, 30025, 10, true, true),
		),
		mustBlock(
			param("model_id", Uint16, "", "", 1, 30070, 1, true, true),
			param("nb_pv_strings", Uint16, "", "", 1, 30071, 1, true, true),
			param("nb_mpp_tracks", Uint16, "", "", 1, 30072, 1, true, true),
			param("rated_power", Uint32, "", "W", 1, 30073, 2, true, true),
			param("P_max", Uint32, "", "W", 1, 30075, 2, false, true),
			param("S_max", Uint32, "", "VA", 1, 30077, 2, false, true),
			param("Q_max_out", Int32, "", "VAr", 1, 30079, 2, false, true),
			param("Q_max_in", Int32, "", "VAr", 1, 30081, 2, false, true),
		),
		mustBlock(
			param("state_1", Uint16, "", "state_bitfield16", 1, 32000, 1, false, true),
		),
		mustBlock(
			param("state_2", Uint16, "", "state_opt_bitfield16", 1, 32002, 1, false, true),
			param("state_3", Uint32, "", "state_opt_bitfield32", 1, 32003, 2, false, true),
		),
		mustBlock(
			param("alarm_1", Uint16, "", "alarm_bitfield16", 1, 32008, 1, false, true),
			param("alarm_2", Uint16, "", "alarm_bitfield16", 1, 32009, 1, false, true),
			param("alarm_3", Uint16, "", "alarm_bitfield16", 1, 32010, 1, false, true),
		),
		pvStringBlock(),
		mustBlock(
			param("input_power", Int32, "", "W", 1, 32064, 2, false, true),
			param("line_voltage_A_B", Uint16, "grid_voltage", "V", 10, 32066, 1, false, true),
			param("line_voltage_B_C", Uint16, "", "V", 10, 32067, 1, false, true),
			param("line_voltage_C_A", Uint16, "", "V", 10, 32068, 1, false, true),
			param("phase_A_voltage", Uint16, "", "V", 10, 32069, 1, false, true),
			param("phase_B_voltage", Uint16, "", "V", 10, 32070, 1, false, true),
			param("phase_C_voltage", Uint16, "", "V", 10, 32071, 1, false, true),
			param("phase_A_current", Int32, "grid_current", "A", 1000, 32072, 2, false, true),
			param("phase_B_current", Int32, "", "A", 1000, 32074, 2, false, true),
			param("phase_C_current", Int32, "", "A", 1000, 32076, 2, false, true),
			param("day_active_power_peak", Int32, "", "W", 1, 32078, 2, false, true),
			param("active_power", Int32, "", "W", 1, 32080, 2, false, true),
			param("reactive_power", Int32, "", "VA", 1, 32082, 2, false, true),
			param("power_factor", Int16, "", "", 1000, 32084, 1, false, true),
			param("grid_frequency", Uint16, "", "Hz", 100, 32085, 1, false, true),
			param("efficiency", Uint16, "", "%", 100, 32086, 1, false, true),
			param("internal_temperature", Int16, "", "°C", 10, 32087, 1, false, true),
			param("insulation_resistance", Uint16, "", "MΩ", 100, 32088, 1, false, true),
			param("device_status", Uint16, "", "status_enum", 1, 32089, 1, false, true),
			param("fault_code", Uint16, "", "", 1, 32090, 1, false, true),
			param("startup_time", Uint32, "", "epoch", 1, 32091, 2, false, true),
			param("shutdown_time", Uint32, "", "epoch", 1, 32093, 2, false, true),
		),
		mustBlock(
			param("accumulated_yield_energy", Uint32, "", "kWh", 100, 32106, 2, false, true),
		),
		mustBlock(
			param("unknown_time_1", Uint32, "", "epoch", 1, 32110, 2, false, true),
		),
		mustBlock(
			param("daily_yield_energy", Uint32, "", "kWh", 100, 32114, 2, true, true),
		),
		mustBlock(
			param("storage1_status", Int16, "", "storage_status_enum", 1, 37000, 1, false, true),
			param("storage1_charge_discharge_power", Int32, "", "W", 1, 37001, 2, false, true),
			param("storage1_bus_voltage", Uint16, "", "V", 10, 37003, 1, false, true),
			param("storage1_battery_soc", Uint16, "", "%", 10, 37004, 1, false, true),
		),
		mustBlock(
			param("storage_working_mode", Uint16, "", "storage_working_mode_enum", 1, 37006, 1, false, true),
			param("storage1_rated_charge_power", Uint32, "", "W", 1, 37007, 2, false, true),
			param("storage1_rated_discharge_power", Uint32, "", "W", 1, 37009, 2, false, true),
		),
		mustBlock(
			param("storage1_fault_id", Uint16, "", "", 1, 37014, 1, false, true),
			param("storage_current_day_charge_capacity", Uint32, "", "kWh", 100, 37015, 2, false, true),
			param("storage_current_day_discharge_capacity", Uint32, "", "kWh", 100, 37017, 2, false, true),
		),
		mustBlock(
			param("storage1_bus_current", Int16, "", "A", 10, 37021, 1, false, true),
			param("storage1_internal_temperature", Int16, "", "°C", 10, 37022, 1, false, true),
		),
		mustBlock(
			param("storage1_remaining_charge_discharge_time", Uint16, "", "min", 1, 37025, 1, false, true),
			param("storage1_dcdc_version", Text, "", "", 1, 37026, 10, false, true),
			param("storage1_bms_version", Text, "", "", 1, 37036, 10, false, true),
			param("storage1_maximum_charge_power", Uint32, "", "W", 1, 37046, 2, false, true),
			param("storage1_maximum_discharge_power", Uint32, "", "W", 1, 37048, 2, false, true),
		),
		mustBlock(
			param("storage1_sn", Text, "", "", 1, 37052, 10, false, true),
		),
		mustBlock(
			param("storage1_total_charge", Uint32, "", "kWh", 100, 37066, 2, false, true),
			param("storage1_total_discharge", Uint32, "", "kWh", 100, 37068, 2, false, true),
		),
		mustBlock(
			param("power_meter_status", Uint16, "", "", 1, 37100, 1, false, true),
			param("grid_A_voltage", Int32, "", "V", 10, 37101, 2, false, true),
			param("grid_B_voltage", Int32, "", "V", 10, 37103, 2, false, true),
			param("grid_C_voltage", Int32, "", "V", 10, 37105, 2, false, true),
			param("active_grid_A_current", Int32, "", "I", 100, 37107, 2, false, true),
			param("active_grid_B_current", Int32, "", "I", 100, 37109, 2, false, true),
			param("active_grid_C_current", Int32, "", "I", 100, 37111, 2, false, true),
			param("power_meter_active_power", Int32, "", "W", 1, 37113, 2, false, true),
			param("power_meter_reactive_power", Int32, "", "Var", 1, 37115, 2, false, true),
			param("active_grid_power_factor", Int16, "", "", 1000, 37117, 1, false, true),
			param("active_grid_frequency", Int16, "", "Hz", 100, 37118, 1, false, true),
			param("grid_exported_energy", Int32, "", "kWh", 100, 37119, 2, false, true),
			param("power_meter_reverse_active_power", Int32, "", "kWh", 100, 37121, 2, false, true),
			param("power_meter_accumulated_reactive_powe", Int32, "", "kVarH", 100, 37123, 2, false, true),
			param("power_meter_meter_type", Uint16, "", "", 1, 37125, 1, false, true),
			param("active_grid_A_B_voltage", Int32, "", "V", 10, 37126, 2, false, true),
			param("active_grid_B_C_voltage", Int32, "", "V", 10, 37128, 2, false, true),
			param("active_grid_C_A_voltage", Int32, "", "V", 10, 37130, 2, false, true),
			param("active_grid_A_power", Int32, "", "W", 1, 37132, 2, false, true),
			param("active_grid_B_power", Int32, "", "W", 1, 37134, 2, false, true),
			param("active_grid_C_power", Int32, "", "W", 1, 37136, 2, false, true),
		),
		mustBlock(
			param("nb_optimizers", Uint16, "", "", 1, 37200, 1, false, false),
			param("nb_online_optimizers", Uint16, "", "", 1, 37201, 1, false, true),
		),
		mustBlock(
			param("storage_rated_capacity", Uint32, "", "Wh", 1, 37758, 2, false, true),
			param("storage_battery_soc", Uint16, "", "%", 10, 37760, 1, false, true),
		),
		mustBlock(
			param("storage_status", Uint16, "", "storage_status_enum", 1, 37762, 1, false, true),
			param("storage_bus_voltage", Uint16, "", "V", 10, 37763, 1, false, true),
			param("storage_bus_current", Int16, "", "A", 10, 37764, 1, false, true),
			param("storage_charge_discharge_power", Int32, "", "W", 1, 37765, 2, false, true),
		),
		mustBlock(
			param("storage_current_day_charge_capacity", Uint32, "", "kWh", 100, 37784, 2, false, true),
			param("storage_current_day_discharge_capacity", Uint32, "", "kWh", 100, 37786, 2, false, true),
		),
		mustBlock(
			param("storage1_sw_version", Text, "", "", 1, 37814, 15, false, true),
		),
		mustBlock(
			param("storage1_battery1_sn", Text, "", "", 1, 38200, 10, false, true),
			param("storage1_battery1_sw_version", Text, "", "", 1, 38210, 15, false, true),
		),
		mustBlock(
			param("storage1_battery1_working_status", Uint16, "", "storage_status_enum", 1, 38228, 1, false, true),
			param("storage1_battery1_soc", Uint16, "", "%", 10, 38229, 1, false, true),
		),
		mustBlock(
			param("storage1_battery1_charge_discharge_power", Int32, "", "kW", 1, 38233, 2, false, true),
			param("storage1_battery1_voltage", Uint16, "", "V", 10, 38235, 1, false, true),
			param("storage1_battery1_current", Int16, "", "A", 10, 38236, 1, false, true),
		),
		mustBlock(
			param("storage1_battery1_total_charge", Uint32, "", "kWh", 100, 38238, 2, false, true),
			param("storage1_battery1_total_discharge", Uint32, "", "kWh", 100, 38240, 2, false, true),
			param("storage1_battery2_sn", Text, "", "", 1, 38242, 10, false, true),
			param("storage1_battery2_sw_version", Text, "", "", 1, 38252, 15, false, true),
		),
		mustBlock(
			param("storage1_battery2_working_status", Uint16, "", "storage_status_enum", 1, 38270, 1, false, true),
			param("storage1_battery2_soc", Uint16, "", "%", 10, 38271, 1, false, true),
		),
		mustBlock(
			param("storage1_battery2_charge_discharge_power", Int32, "", "kW", 1, 38275, 2, false, true),
			param("storage1_battery2_voltage", Uint16, "", "V", 10, 38277, 1, false, true),
			param("storage1_battery2_current", Int16, "", "A", 10, 38278, 1, false, true),
		),
		mustBlock(
			param("storage1_battery2_total_charge", Uint32, "", "kWh", 100, 38280, 2, false, true),
			param("storage1_battery2_total_discharge", Uint32, "", "kWh", 100, 38282, 2, false, true),
			param("storage1_battery3_sn", Text, "", "", 1, 38284, 10, false, true),
			param("storage1_battery3_sw_version", Text, "", "", 1, 38294, 15, false, true),
		),
		mustBlock(
			param("storage1_battery3_working_status", Uint16, "", "storage_status_enum", 1, 38312, 1, false, true),
			param("storage1_battery3_soc", Uint16, "", "%", 10, 38313, 1, false, true),
		),
		mustBlock(
			param("storage1_battery3_charge_discharge_power", Int32, "", "kW", 1, 38317, 2, false, true),
			param("storage1_battery3_voltage", Uint16, "", "V", 10, 38319, 1, false, true),
			param("storage1_battery3_current", Int16, "", "A", 10, 38320, 1, false, true),
		),
		mustBlock(
			param("storage1_battery3_total_charge", Uint32, "", "kWh", 100, 38322, 2, false, true),
			param("storage1_battery3_total_discharge", Uint32, "", "kWh", 100, 38324, 2, false, true),
		),
		mustBlock(
			param("storage1_battery1_max_temperature", Int16, "", "°C", 10, 38452, 1, false, true),
			param("storage1_battery1_min_temperature", Int16, "", "°C", 10, 38453, 1, false, true),
			param("storage1_battery2_max_temperature", Int16, "", "°C", 10, 38454, 1, false, true),
			param("storage1_battery2_min_temperature", Int16, "", "°C", 10, 38455, 1, false, true),
			param("storage1_battery3_max_temperature", Int16, "", "°C", 10, 38456, 1, false, true),
			param("storage1_battery3_min_temperature", Int16, "", "°C", 10, 38457, 1, false, true),
		),
		mustBlock(
			param("system_time", Uint32, "", "epoch", 1, 40000, 2, false, true),
		),
		mustBlock(
			param("grid_code", Uint16, "", "grid_enum", 1, 42000, 1, false, true),
		),
		mustBlock(
			param("time_zone", Int16, "", "min", 1, 43006, 1, false, true),
		),
		mustBlock(
			param("storage_working_mode", Int16, "", "storage_working_mode_enum", 1, 47004, 1, false, true),
		),
		mustBlock(
			param("storage_time_of_use_price", Int16, "", "storage_tou_price_enum", 1, 47027, 1, false, true),
		),
		mustBlock(
			param("storage_lcoe", Uint32, "", "", 1000, 47069, 2, false, true),
		),
		mustBlock(
			param("storage_maximum_charging_power", Uint32, "", "W", 1, 47075, 2, false, true),
			param("storage_maximum_discharging_power", Uint32, "", "W", 1, 47077, 2, false, true),
			param("storage_power_limit_grid_tied_point", Int32, "", "W", 1, 47079, 2, false, true),
			param("storage_charging_cutoff_capacity", Uint16, "", "%", 10, 47081, 1, false, true),
			param("storage_discharging_cutoff_capacity", Uint16, "", "%", 10, 47082, 1, false, true),
			param("storage_forced_charging_and_discharging_period", Uint16, "", "min", 1, 47083, 1, false, true),
			param("storage_forced_charging_and_discharging_power", Int32, "", "min", 1, 47084, 2, false, true),
			param("storage_working_mode", Uint16, "", "working_mode", 1, 47086, 1, false, true),
		),
		mustBlock(
			param("active_power_control_mode", Uint16, "", "active_power_control_mode_enum", 1, 47415, 1, false, true),
		),
		mustBlock(
			param("storage1_battery1_no", Uint16, "", "", 1, 47750, 1, false, true),
			param("storage1_battery2_no", Uint16, "", "", 1, 47751, 1, false, true),
			param("storage1_battery3_no", Uint16, "", "", 1, 47752, 1, false, true),
		),
	}
}
